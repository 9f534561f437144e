package shell

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattjoyce/tsh/internal/jobs"
	"github.com/mattjoyce/tsh/internal/log"
	"github.com/mattjoyce/tsh/internal/proc"
)

// Report is one processed child status change, waiting to be shown.
type Report struct {
	Kind   proc.Kind
	Job    jobs.Job
	Signal int
}

// Message is the user-visible line for the report, or "" for silent exits.
func (r Report) Message() string {
	switch r.Kind {
	case proc.Signaled:
		return fmt.Sprintf("Job [%d] (%d) terminated by signal %d\n", r.Job.JID, r.Job.PID, r.Signal)
	case proc.Stopped:
		return fmt.Sprintf("Job [%d] (%d) stopped by signal %d\n", r.Job.JID, r.Job.PID, r.Signal)
	default:
		return ""
	}
}

// Notifier applies child status changes to the job table.
type Notifier struct {
	table  *jobs.Table
	reaper Reaper
	logger *slog.Logger

	mu      sync.Mutex
	pending []Report
}

// NewNotifier creates a notifier draining reaper into table.
func NewNotifier(table *jobs.Table, reaper Reaper, logger *slog.Logger) *Notifier {
	return &Notifier{
		table:  table,
		reaper: reaper,
		logger: logger,
	}
}

// Drain processes every status change currently available. Several children
// may have changed state behind a single SIGCHLD, so it loops until the
// reaper has nothing left.
func (n *Notifier) Drain() error {
	return n.table.Update(func(tx *jobs.Tx) error {
		for {
			pid, st, ok, err := n.reaper.Reap()
			if err != nil {
				return fatal("reap children", err)
			}
			if !ok {
				return nil
			}
			n.apply(tx, pid, st)
		}
	})
}

// apply runs with the table locked. Reports are queued before Update
// returns, so a foreground waiter woken by this change finds them.
func (n *Notifier) apply(tx *jobs.Tx, pid int, st proc.Status) {
	job, ok := tx.ByPID(pid)
	if !ok {
		n.logger.Debug("status change for untracked child", "pid", pid, "kind", st.Kind.String())
		return
	}

	logger := log.WithJob(n.logger, job.JID, pid)
	switch st.Kind {
	case proc.Exited:
		tx.Remove(pid)
		logger.Debug("job exited", "code", st.Code)
	case proc.Signaled:
		tx.Remove(pid)
		logger.Debug("job terminated", "signal", int(st.Signal))
	case proc.Stopped:
		if err := tx.SetState(pid, jobs.Stopped); err != nil {
			logger.Warn("failed to mark job stopped", "error", err)
			return
		}
		job.State = jobs.Stopped
		logger.Debug("job stopped", "signal", int(st.Signal))
	default:
		return
	}

	n.mu.Lock()
	n.pending = append(n.pending, Report{Kind: st.Kind, Job: job, Signal: int(st.Signal)})
	n.mu.Unlock()
}

// TakeReports hands queued reports to the caller, oldest first.
func (n *Notifier) TakeReports() []Report {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}
