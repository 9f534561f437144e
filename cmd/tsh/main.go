// Command tsh is a small interactive shell with job control.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mattjoyce/tsh/internal/api"
	"github.com/mattjoyce/tsh/internal/config"
	"github.com/mattjoyce/tsh/internal/events"
	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/journal"
	"github.com/mattjoyce/tsh/internal/log"
	"github.com/mattjoyce/tsh/internal/proc"
	"github.com/mattjoyce/tsh/internal/shell"
	"github.com/mattjoyce/tsh/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: shell [-hvp] [-config path] [-history n]
   -h   print this message
   -v   print additional diagnostic information
   -p   do not emit a command prompt
   -config path   configuration file
   -history n     print the last n journal entries and exit
`)
}

// run is main without the exit, so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tsh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stdout) }
	verbose := fs.Bool("v", false, "print additional diagnostic information")
	noPrompt := fs.Bool("p", false, "do not emit a command prompt")
	configPath := fs.String("config", "", "configuration file")
	history := fs.Int("history", 0, "print the last n journal entries and exit")
	if err := fs.Parse(args); err != nil {
		// -h, unknown flags and bad values all print usage and fail.
		return 1
	}
	if fs.NArg() > 0 {
		usage(stdout)
		return 1
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "tsh: %v\n", err)
		return 1
	}

	level := cfg.Shell.LogLevel
	if *verbose {
		level = "debug"
	}
	log.Setup(level, stderr)
	logger := log.WithComponent("main")
	logger.Debug("tsh starting", "config", cfg.Source, "max_jobs", cfg.Shell.MaxJobs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *history > 0 {
		return printHistory(ctx, cfg.Journal.Path, *history, stdout, stderr)
	}

	table := jobs.NewTable(cfg.Shell.MaxJobs)
	sh := shell.New(
		table,
		proc.ExecSpawner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
		proc.GroupSignaller{},
		proc.WaitReaper{},
		stdout,
		shell.Options{Prompt: cfg.Shell.Prompt, EmitPrompt: !*noPrompt, Verbose: *verbose},
		log.WithComponent("shell"),
	)

	session := uuid.NewString()
	if cfg.Journal.Enabled {
		j, err := journal.Open(ctx, cfg.Journal.Path)
		if err != nil {
			// The shell still works without its journal.
			journalUnavailable(stderr, logger, cfg.Journal.Path, err)
		} else {
			defer j.Close()
			session = j.Session()
			sh.Observe(journalObserver(ctx, j, log.WithComponent("journal")))
		}
	}

	hub := events.NewHub(cfg.Events.Buffer)
	sh.Observe(func(ev shell.Event) {
		hub.Publish(ev.Type, ev.At, ev)
	})

	if cfg.API.Enabled {
		srv := api.New(api.Config{
			Listen:  cfg.API.Listen,
			Token:   cfg.API.Token,
			Session: session,
		}, table, hub, log.WithComponent("api"))
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("API server stopped", "error", err)
			}
		}()
	}

	stop := sh.HandleSignals(ctx)
	defer stop()

	if err := sh.Run(ctx, stdin); err != nil {
		var fe *shell.FatalError
		if errors.As(err, &fe) {
			logger.Error("job control failed", "op", fe.Op, "error", fe.Err)
		}
		fmt.Fprintf(stdout, "tsh: %v\n", err)
		return 1
	}
	return 0
}

// journalUnavailable logs why the journal could not be opened. A journal on
// a network mount also gets a hint on stderr, since it fails every time.
func journalUnavailable(stderr io.Writer, logger *slog.Logger, path string, err error) {
	var remote *storage.RemoteFSError
	if errors.As(err, &remote) {
		fmt.Fprintf(stderr, "tsh: journal disabled: %s is on a %s mount; set journal.path to a local file\n", remote.Path, remote.FS)
	}
	logger.Warn("journal unavailable", "path", path, "error", err)
}

// journalObserver records lifecycle events. Failures are logged; the shell
// carries on.
func journalObserver(ctx context.Context, j *journal.Journal, logger *slog.Logger) shell.Observer {
	return func(ev shell.Event) {
		entry := journal.Entry{
			JID:     ev.Job.JID,
			PID:     ev.Job.PID,
			Event:   journal.Event(strings.TrimPrefix(ev.Type, "job.")),
			Signal:  ev.Signal,
			Command: ev.Job.CommandLine,
			At:      ev.At,
		}
		if err := j.Record(ctx, entry); err != nil {
			logger.Warn("failed to record job event", "type", ev.Type, "jid", ev.Job.JID, "error", err)
			return
		}
		if ev.Type == shell.EventStarted && logger.Enabled(ctx, slog.LevelDebug) {
			if n, err := j.Runs(ctx, ev.Job.CommandLine); err == nil {
				logger.Debug("command run count", "command", strings.TrimSpace(ev.Job.CommandLine), "runs", n)
			}
		}
	}
}

func printHistory(ctx context.Context, path string, n int, stdout, stderr io.Writer) int {
	j, err := journal.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(stderr, "tsh: %v\n", err)
		return 1
	}
	defer j.Close()

	entries, err := j.Recent(ctx, n)
	if err != nil {
		fmt.Fprintf(stderr, "tsh: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintln(stdout, e.Format())
	}
	return 0
}
