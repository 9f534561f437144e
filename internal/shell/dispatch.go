package shell

import (
	"context"
	"errors"
	"os"

	"github.com/agnivade/levenshtein"

	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/log"
	"github.com/mattjoyce/tsh/internal/parse"
	"github.com/mattjoyce/tsh/internal/proc"
)

// launch runs an external command. The existence check opens the literal
// argv[0]; there is no PATH search.
func (s *Shell) launch(ctx context.Context, cmd parse.Command) error {
	name := cmd.Argv[0]
	if err := checkReadable(name); err != nil {
		s.commandNotFound(name, err)
		return nil
	}

	state := jobs.Foreground
	if cmd.Background {
		state = jobs.Background
	}

	var job jobs.Job
	err := s.table.Update(func(tx *jobs.Tx) error {
		if tx.Full() {
			return jobs.ErrTableFull
		}

		pid, err := s.spawner.Spawn(cmd.Argv)
		if err != nil {
			return err
		}

		jid, err := tx.Add(pid, state, cmd.Line)
		if err != nil {
			return fatal("register job", err)
		}
		job = jobs.Job{PID: pid, JID: jid, State: state, CommandLine: cmd.Line}

		// Announce before notifications resume so the line precedes any
		// report about this job.
		if cmd.Background {
			s.print(job.Announcement())
		}
		return nil
	})

	switch {
	case errors.Is(err, jobs.ErrTableFull):
		s.print("Tried to create too many jobs\n")
		s.logger.Warn("job table full", "capacity", s.table.Capacity(), "command", name)
		return nil
	case errors.Is(err, proc.ErrNotExecutable):
		s.commandNotFound(name, err)
		return nil
	case err != nil:
		var fe *FatalError
		if errors.As(err, &fe) {
			return err
		}
		return fatal("spawn", err)
	}

	log.WithJob(s.logger, job.JID, job.PID).Debug("job started", "state", job.State.String(), "argv", cmd.Argv)
	s.emit(Event{Type: EventStarted, Job: job})

	if state == jobs.Foreground {
		s.waitForeground(ctx, job.PID)
	}
	return nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *Shell) commandNotFound(name string, cause error) {
	s.printf("%s: Command not found\n", name)
	if !s.opts.Verbose {
		return
	}
	attrs := []any{"command", name, "error", cause}
	if suggestion, ok := suggestBuiltin(name); ok {
		attrs = append(attrs, "suggestion", suggestion)
	}
	s.logger.Debug("command not found", attrs...)
}

var builtinNames = []string{"quit", "jobs", "bg", "fg"}

// suggestBuiltin returns the builtin closest to name, if it is a likely typo.
func suggestBuiltin(name string) (string, bool) {
	if len(name) < 3 {
		return "", false
	}
	best, bestDist := "", 3
	for _, b := range builtinNames {
		if d := levenshtein.ComputeDistance(name, b); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, best != "" && best != name
}
