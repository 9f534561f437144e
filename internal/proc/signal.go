//go:build unix

package proc

import (
	"fmt"
	"syscall"
)

// GroupSignaller delivers signals to whole process groups.
type GroupSignaller struct{}

// Signal sends sig to every process in the group led by pgid.
func (GroupSignaller) Signal(pgid int, sig syscall.Signal) error {
	if pgid < 1 {
		return fmt.Errorf("signal %v: invalid process group %d", sig, pgid)
	}
	if err := syscall.Kill(-pgid, sig); err != nil {
		return fmt.Errorf("signal %v to group %d: %w", sig, pgid, err)
	}
	return nil
}
