package shell

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/log"
)

var defaultExit = os.Exit

// HandleSignals routes SIGCHLD, SIGINT, SIGTSTP and SIGQUIT to the shell
// until ctx is done or stop is called. SIGINT and SIGTSTP no longer act on
// the shell itself; they are forwarded to the foreground job.
func (s *Shell) HandleSignals(ctx context.Context) (stop func()) {
	sigCh := make(chan os.Signal, 16)
	signal.Notify(sigCh, syscall.SIGCHLD, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sys, ok := sig.(syscall.Signal); ok {
					s.handleSignal(sys)
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		cancel()
		<-done
	}
}

func (s *Shell) handleSignal(sig syscall.Signal) {
	switch sig {
	case syscall.SIGCHLD:
		if err := s.notifier.Drain(); err != nil {
			s.die(err)
		}
	case syscall.SIGINT, syscall.SIGTSTP:
		if err := s.forward(sig); err != nil {
			s.die(err)
		}
	case syscall.SIGQUIT:
		s.print("Terminating after receipt of SIGQUIT signal\n")
		s.exit(1)
	}
}

// forward sends sig to the foreground job's process group, if there is one.
// The lookup and the kill share one critical section so the job cannot be
// reaped in between.
func (s *Shell) forward(sig syscall.Signal) error {
	var (
		job jobs.Job
		ok  bool
	)
	err := s.table.Update(func(tx *jobs.Tx) error {
		job, ok = tx.Foreground()
		if !ok {
			return nil
		}
		if err := s.signaller.Signal(job.PID, sig); err != nil {
			return fatal("forward "+sig.String(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if ok {
		log.WithJob(s.logger, job.JID, job.PID).Debug("signal forwarded", "signal", int(sig))
	}
	return nil
}

func (s *Shell) die(err error) {
	s.logger.Error("job control failed", "error", err)
	s.printf("tsh: %v\n", err)
	s.exit(1)
}
