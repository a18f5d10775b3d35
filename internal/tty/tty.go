//go:build !windows

// Package tty owns the controlling terminal: raw-mode enter/exit, window
// size, and keystroke decoding for the picker.
package tty

import (
	"os"

	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Terminal is the controlling TTY opened for both frame output and
// keystroke input, independent of stdin/stdout so those stay available
// for the shell bridge.
type Terminal struct {
	f     *os.File
	state *term.State
}

// Open opens /dev/tty. It fails when the process has no controlling
// terminal, in which case the picker refuses to run.
func Open() (*Terminal, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "could not open /dev/tty")
	}
	if !isatty.IsTerminal(f.Fd()) {
		f.Close()
		return nil, errors.New("/dev/tty is not a terminal")
	}
	return &Terminal{f: f}, nil
}

// MakeRaw disables canonical input, echo and signal-generating keys,
// saving the previous attributes for Restore.
func (t *Terminal) MakeRaw() error {
	state, err := term.MakeRaw(int(t.f.Fd()))
	if err != nil {
		return errors.Wrap(err, "failed to enter raw mode")
	}
	t.state = state
	return nil
}

// Restore puts the terminal back into the attributes saved by MakeRaw.
// It is idempotent so it can sit in a defer on every exit path.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(int(t.f.Fd()), state)
}

// Size returns the terminal dimensions, falling back to 24x80 when the
// kernel query fails.
func (t *Terminal) Size() (rows, cols int) {
	cols, rows, err := term.GetSize(int(t.f.Fd()))
	if err != nil || rows <= 0 || cols <= 0 {
		return 24, 80
	}
	return rows, cols
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Close restores the terminal state and closes the TTY.
func (t *Terminal) Close() error {
	err := t.Restore()
	if cerr := t.f.Close(); err == nil {
		err = cerr
	}
	return err
}
