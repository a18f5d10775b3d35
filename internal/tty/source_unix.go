//go:build !windows

package tty

import (
	"io"

	"golang.org/x/sys/unix"
)

// escWindowMs is how long a bare ESC waits for a follow-up byte before it
// is reported as the Escape key.
const escWindowMs = 50

// termSource reads single bytes from the TTY.
type termSource struct {
	t *Terminal
}

func newTermSource(t *Terminal) source {
	return &termSource{t: t}
}

func (s *termSource) readByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := s.t.f.Read(buf[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return buf[0], nil
		}
	}
}

// pending polls the TTY fd for readable data within the escape window.
func (s *termSource) pending() bool {
	fds := []unix.PollFd{{Fd: int32(s.t.f.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, escWindowMs)
		if err == unix.EINTR {
			continue
		}
		return err == nil && n > 0
	}
}

var _ io.Writer = (*Terminal)(nil)
