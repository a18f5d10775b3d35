//go:build windows

package tty

func newTermSource(t *Terminal) source {
	return &stringSource{}
}
