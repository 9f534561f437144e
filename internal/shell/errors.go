package shell

import "errors"

// ErrQuit is returned by Eval when the user ran the quit builtin.
var ErrQuit = errors.New("quit")

// FatalError wraps a failure of an OS primitive the job-control substrate
// depends on. The shell cannot continue safely after one.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, err error) error {
	return &FatalError{Op: op, Err: err}
}
