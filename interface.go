package try

import "github.com/pkg/errors"

const version = "v1.0.0"

type errIgnorable struct {
	err error
}

func (e errIgnorable) Ignorable() bool { return true }

func (e errIgnorable) Unwrap() error {
	return e.err
}

func (e errIgnorable) Error() string {
	return e.err.Error()
}

func makeIgnorable(err error) error {
	return &errIgnorable{err: err}
}

type errWithExitStatus struct {
	err    error
	status int
}

func (e errWithExitStatus) Error() string {
	return e.err.Error()
}

func (e errWithExitStatus) Unwrap() error {
	return e.err
}

func (e errWithExitStatus) ExitStatus() int {
	return e.status
}

func setExitStatus(err error, status int) error {
	return &errWithExitStatus{err: err, status: status}
}

// errCancelled reports a user cancel from the interactive selector:
// exit status 1 with a one-line diagnostic.
var errCancelled = setExitStatus(errors.New("Cancelled."), 1)
