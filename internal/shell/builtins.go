package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"syscall"

	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/log"
)

// builtin runs argv if it names a builtin command.
func (s *Shell) builtin(ctx context.Context, argv []string) (bool, error) {
	switch argv[0] {
	case "quit":
		return true, ErrQuit
	case "&":
		return true, nil
	case "jobs":
		for _, j := range s.table.Snapshot() {
			s.print(j.Listing())
		}
		return true, nil
	case "bg", "fg":
		return true, s.bgfg(ctx, argv)
	}
	return false, nil
}

// target is a parsed bg/fg argument: %jid or a bare pid. An id too large
// for an int keeps its digits in overflow and matches no job.
type target struct {
	id       int
	byJID    bool
	overflow string
}

// parseTarget accepts "%<digits>" or "<digits>".
func parseTarget(arg string) (target, bool) {
	t := target{}
	if len(arg) > 0 && arg[0] == '%' {
		t.byJID = true
		arg = arg[1:]
	}
	if !isDecimal(arg) {
		return target{}, false
	}
	n, err := strconv.Atoi(arg)
	if errors.Is(err, strconv.ErrRange) {
		t.overflow = arg
		return t, true
	}
	if err != nil {
		return target{}, false
	}
	t.id = n
	return t, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (t target) resolve(tx *jobs.Tx) (jobs.Job, bool) {
	switch {
	case t.overflow != "":
		return jobs.Job{}, false
	case t.byJID:
		return tx.ByJID(t.id)
	default:
		return tx.ByPID(t.id)
	}
}

func (t target) notFound() string {
	id := strconv.Itoa(t.id)
	if t.overflow != "" {
		id = t.overflow
	}
	if t.byJID {
		return fmt.Sprintf("%%%s: No such job\n", id)
	}
	return fmt.Sprintf("(%s): No such process\n", id)
}

// bgfg continues a job in the background or brings it to the foreground.
// Resolution, signalling and the state change happen in one critical
// section, so the job cannot be reaped between lookup and kill.
func (s *Shell) bgfg(ctx context.Context, argv []string) error {
	name := argv[0]
	if len(argv) < 2 {
		s.printf("%s command requires PID or %%jobid argument\n", name)
		return nil
	}
	tgt, ok := parseTarget(argv[1])
	if !ok {
		s.printf("%s: argument must be a PID or %%jobid\n", name)
		return nil
	}

	var (
		job       jobs.Job
		found     bool
		continued bool
	)
	err := s.table.Update(func(tx *jobs.Tx) error {
		job, found = tgt.resolve(tx)
		if !found {
			return nil
		}

		switch name {
		case "bg":
			// Always continue, even if the job was already running.
			if err := s.signaller.Signal(job.PID, syscall.SIGCONT); err != nil {
				return fatal("bg", err)
			}
			continued = true
			if err := tx.SetState(job.PID, jobs.Background); err != nil {
				return fatal("bg", err)
			}
			job.State = jobs.Background
			s.print(job.Announcement())
		case "fg":
			if job.State == jobs.Stopped {
				if err := s.signaller.Signal(job.PID, syscall.SIGCONT); err != nil {
					return fatal("fg", err)
				}
				continued = true
			}
			if err := tx.SetState(job.PID, jobs.Foreground); err != nil {
				return fatal("fg", err)
			}
			job.State = jobs.Foreground
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		s.print(tgt.notFound())
		return nil
	}

	log.WithJob(s.logger, job.JID, job.PID).Debug("job resumed", "builtin", name, "continued", continued)
	if continued {
		s.emit(Event{Type: EventContinued, Job: job, Signal: int(syscall.SIGCONT)})
	}
	if name == "fg" {
		s.emit(Event{Type: EventForeground, Job: job})
		s.waitForeground(ctx, job.PID)
	}
	return nil
}
