package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"syscall"
	"time"

	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/parse"
	"github.com/mattjoyce/tsh/internal/proc"
)

//go:generate mockgen -destination=mocks/mock_shell.go -package=mocks github.com/mattjoyce/tsh/internal/shell Spawner,Signaller

// Spawner starts a child in a new process group whose id is its pid.
type Spawner interface {
	Spawn(argv []string) (int, error)
}

// Signaller delivers a signal to every process in a group.
type Signaller interface {
	Signal(pgid int, sig syscall.Signal) error
}

// Reaper reports child status changes without blocking.
type Reaper interface {
	Reap() (pid int, st proc.Status, ok bool, err error)
}

// Event is a job lifecycle change, published to observers from the main flow.
type Event struct {
	Type   string    `json:"type"`
	Job    jobs.Job  `json:"job"`
	Signal int       `json:"signal,omitempty"`
	At     time.Time `json:"at"`
}

// Lifecycle event types.
const (
	EventStarted    = "job.started"
	EventExited     = "job.exited"
	EventTerminated = "job.terminated"
	EventStopped    = "job.stopped"
	EventContinued  = "job.continued"
	EventForeground = "job.foreground"
)

// Observer receives lifecycle events. Observers run on the main flow and
// must not call back into the shell.
type Observer func(Event)

// Options configures a Shell.
type Options struct {
	Prompt     string
	EmitPrompt bool
	Verbose    bool
}

// Shell ties the job table to its collaborators.
type Shell struct {
	table     *jobs.Table
	spawner   Spawner
	signaller Signaller
	notifier  *Notifier
	out       *syncWriter
	opts      Options
	logger    *slog.Logger
	observers []Observer

	// exit terminates the process; replaced in tests.
	exit func(code int)
}

// New creates a Shell. out receives every user-visible message.
func New(table *jobs.Table, spawner Spawner, signaller Signaller, reaper Reaper, out io.Writer, opts Options, logger *slog.Logger) *Shell {
	return &Shell{
		table:     table,
		spawner:   spawner,
		signaller: signaller,
		notifier:  NewNotifier(table, reaper, logger.With("component", "notify")),
		out:       &syncWriter{w: out},
		opts:      opts,
		logger:    logger,
		exit:      defaultExit,
	}
}

// Observe registers an observer for lifecycle events.
func (s *Shell) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// Table returns the shell's job table.
func (s *Shell) Table() *jobs.Table {
	return s.table
}

// Run is the read/eval loop. It returns nil on end of input or quit, and a
// *FatalError when the job-control substrate failed. Signal handling must
// already be installed (see HandleSignals).
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		s.flush()
		if err := ctx.Err(); err != nil {
			return nil
		}
		if s.opts.EmitPrompt {
			s.print(s.opts.Prompt)
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fatal("read command line", readErr)
		}
		if line != "" {
			err := s.eval(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		if readErr != nil {
			s.flush()
			return nil
		}
	}
}

// Eval runs one command line.
func (s *Shell) Eval(line string) error {
	return s.eval(context.Background(), line)
}

// eval runs line; ctx bounds any wait for a foreground job it starts.
func (s *Shell) eval(ctx context.Context, line string) error {
	cmd, err := parse.Line(line)
	if err != nil {
		s.printf("tsh: %v\n", err)
		return nil
	}
	if cmd.Empty() {
		return nil
	}
	if handled, err := s.builtin(ctx, cmd.Argv); handled {
		return err
	}
	return s.launch(ctx, cmd)
}

// waitForeground blocks until pid leaves the foreground or ctx ends, then
// prints what the notification handler recorded meanwhile. A cancelled wait
// leaves the job in the table; Run returns at the top of its loop.
func (s *Shell) waitForeground(ctx context.Context, pid int) {
	if err := s.table.WaitWhileForeground(ctx, pid); err != nil {
		s.logger.Debug("stopped waiting for foreground job", "pid", pid, "error", err)
	}
	s.flush()
}

// flush prints queued notification reports and publishes their events.
func (s *Shell) flush() {
	for _, r := range s.notifier.TakeReports() {
		if msg := r.Message(); msg != "" {
			s.print(msg)
		}
		ev := Event{Job: r.Job, Signal: r.Signal}
		switch r.Kind {
		case proc.Exited:
			ev.Type = EventExited
		case proc.Signaled:
			ev.Type = EventTerminated
		case proc.Stopped:
			ev.Type = EventStopped
		}
		s.emit(ev)
	}
}

func (s *Shell) emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	for _, o := range s.observers {
		o(ev)
	}
}

func (s *Shell) print(msg string) {
	_, _ = io.WriteString(s.out, msg)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// syncWriter serializes writes from the main flow and the signal goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
