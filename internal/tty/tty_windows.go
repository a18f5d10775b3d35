//go:build windows

package tty

import (
	"github.com/pkg/errors"
)

// Terminal is unsupported on Windows; the picker refuses to start.
type Terminal struct{}

func Open() (*Terminal, error) {
	return nil, errors.New("the interactive picker requires a POSIX terminal")
}

func (t *Terminal) MakeRaw() error              { return errors.New("not supported") }
func (t *Terminal) Restore() error              { return nil }
func (t *Terminal) Size() (rows, cols int)      { return 24, 80 }
func (t *Terminal) Write(p []byte) (int, error) { return len(p), nil }
func (t *Terminal) Close() error                { return nil }
