//go:build unix

package proc

import (
	"fmt"
	"syscall"
)

// Kind classifies a child status change.
type Kind int

const (
	// Exited means the child called exit.
	Exited Kind = iota + 1
	// Signaled means the child was killed by a signal.
	Signaled
	// Stopped means the child was suspended by a signal.
	Stopped
	// Continued means a stopped child was resumed.
	Continued
)

func (k Kind) String() string {
	switch k {
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	case Stopped:
		return "stopped"
	case Continued:
		return "continued"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Status is a decoded wait status.
type Status struct {
	Kind Kind
	// Code is the exit code for Exited.
	Code int
	// Signal is the terminating or stopping signal for Signaled and Stopped.
	Signal syscall.Signal
}

// Decode converts a raw wait status.
func Decode(ws syscall.WaitStatus) Status {
	switch {
	case ws.Exited():
		return Status{Kind: Exited, Code: ws.ExitStatus()}
	case ws.Signaled():
		return Status{Kind: Signaled, Signal: ws.Signal()}
	case ws.Stopped():
		return Status{Kind: Stopped, Signal: ws.StopSignal()}
	case ws.Continued():
		return Status{Kind: Continued}
	default:
		return Status{}
	}
}
