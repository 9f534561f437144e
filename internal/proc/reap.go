//go:build unix

package proc

import (
	"errors"
	"fmt"
	"syscall"
)

// WaitReaper collects status changes of any child of this process.
type WaitReaper struct{}

// Reap returns the next pending status change without blocking. ok is false
// when no child has anything to report, including when there are no children.
func (WaitReaper) Reap() (pid int, st Status, ok bool, err error) {
	for {
		var ws syscall.WaitStatus
		pid, err = syscall.Wait4(-1, &ws, syscall.WNOHANG|syscall.WUNTRACED, nil)
		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case errors.Is(err, syscall.ECHILD):
			return 0, Status{}, false, nil
		case err != nil:
			return 0, Status{}, false, fmt.Errorf("wait4: %w", err)
		case pid <= 0:
			return 0, Status{}, false, nil
		}
		return pid, Decode(ws), true, nil
	}
}
