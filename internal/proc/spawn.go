//go:build unix

package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

// ErrNotExecutable marks spawn failures the exec step itself reported
// (missing file, permission denied, bad format). They concern the command,
// not the shell, so callers report them and carry on.
var ErrNotExecutable = errors.New("not executable")

// ExecSpawner starts children with os/exec. Each child gets its own process
// group whose id equals its pid, so terminal-generated signals aimed at the
// shell's group never reach it directly.
type ExecSpawner struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	Env    []string
}

// Spawn starts argv[0] as given (no PATH search) and returns its pid.
// The child is never waited on through os/exec; its status is collected
// by Reaper.
func (s ExecSpawner) Spawn(argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("spawn: empty argv")
	}

	cmd := &exec.Cmd{
		Path:   argv[0],
		Args:   argv,
		Env:    s.Env,
		Stdin:  s.Stdin,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
		SysProcAttr: &syscall.SysProcAttr{
			Setpgid: true,
		},
	}
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}

	if err := cmd.Start(); err != nil {
		if isExecFailure(err) {
			return 0, fmt.Errorf("spawn %s: %w: %w", argv[0], ErrNotExecutable, err)
		}
		return 0, fmt.Errorf("spawn %s: %w", argv[0], err)
	}

	pid := cmd.Process.Pid
	// Drop os/exec's handle; the pid stays a zombie until Reaper collects it.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %d: %w", pid, err)
	}
	return pid, nil
}

func isExecFailure(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC) ||
		errors.Is(err, syscall.EISDIR) ||
		errors.Is(err, syscall.ENOTDIR)
}
