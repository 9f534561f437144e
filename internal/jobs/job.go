package jobs

import (
	"errors"
	"fmt"
	"strings"
)

// State is a job's position in the job-control state machine.
type State int

const (
	// Undefined marks an empty table slot.
	Undefined State = iota
	// Foreground jobs block the read loop and receive forwarded ctrl-c / ctrl-z.
	Foreground
	// Background jobs run without blocking the read loop.
	Background
	// Stopped jobs are suspended until bg or fg continues them.
	Stopped
)

// String returns the label printed by the jobs builtin.
func (s State) String() string {
	switch s {
	case Foreground:
		return "Foreground"
	case Background:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return fmt.Sprintf("Undefined(%d)", int(s))
	}
}

// MarshalText renders the state for JSON consumers (status API, event hub).
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Foreground:
		return []byte("foreground"), nil
	case Background:
		return []byte("background"), nil
	case Stopped:
		return []byte("stopped"), nil
	default:
		return nil, fmt.Errorf("cannot marshal job state %d", int(s))
	}
}

// UnmarshalText parses the JSON form produced by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "foreground":
		*s = Foreground
	case "background":
		*s = Background
	case "stopped":
		*s = Stopped
	default:
		return fmt.Errorf("unknown job state %q", string(b))
	}
	return nil
}

// Job is one child process known to the shell.
type Job struct {
	PID         int    `json:"pid"`
	JID         int    `json:"jid"`
	State       State  `json:"state"`
	CommandLine string `json:"command_line"`
}

// Announcement is the "[jid] (pid) command_line" line printed when a job
// starts in, or is moved to, the background.
func (j Job) Announcement() string {
	return terminate(fmt.Sprintf("[%d] (%d) %s", j.JID, j.PID, j.CommandLine))
}

// Listing is the line the jobs builtin prints for this job.
func (j Job) Listing() string {
	return terminate(fmt.Sprintf("[%d] (%d) %s %s", j.JID, j.PID, j.State, j.CommandLine))
}

// terminate keeps the raw command line's newline and adds one if it was missing.
func terminate(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

var (
	// ErrTableFull is returned by Add when every slot is taken.
	ErrTableFull = errors.New("job table full")
	// ErrDuplicatePID is returned by Add when the pid is already tracked.
	ErrDuplicatePID = errors.New("pid already tracked")
	// ErrForegroundBusy is returned when a second job would become foreground.
	ErrForegroundBusy = errors.New("another job is in the foreground")
	// ErrNoSuchJob is returned by SetState for an untracked pid.
	ErrNoSuchJob = errors.New("no such job")
	// ErrInvalidPID is returned for pids that cannot belong to a child.
	ErrInvalidPID = errors.New("invalid pid")
	// ErrInvalidState is returned for states a job cannot be created in or moved to.
	ErrInvalidState = errors.New("invalid job state")
)
