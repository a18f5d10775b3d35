// Package shell turns a selector outcome into a short shell script and
// hands it to the calling shell — either by executing the non-cd part in
// a child shell and printing a cd hint (direct mode), or by emitting the
// whole script for the shell-integration wrapper to eval (exec mode).
package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"context"

	"github.com/pkg/errors"

	"github.com/try-sh/try/internal/util"
)

// ModeType selects how the cwd change reaches the calling shell.
type ModeType int

const (
	// ModeDirect executes the script's work in a child shell and prints
	// a `cd` hint line for the user.
	ModeDirect ModeType = iota
	// ModeExec prints the script for the try() wrapper to eval.
	ModeExec
)

// EvalMarker heads exec-mode output. The shell wrapper evals everything
// after it; a human running `try exec` by hand sees what the line is for.
const EvalMarker = "# output must be eval'd by the try() shell function"

// quote wraps p in single quotes. Paths containing a single quote produce
// an invalid script; in practice scan names are filesystem entries the
// user created through try itself.
func quote(p string) string {
	return "'" + p + "'"
}

// Cd builds the script for entering an existing try. The touch refreshes
// the directory's mtime as a recency signal for later runs.
func Cd(path string) string {
	return "touch " + quote(path) + " && cd " + quote(path) + " && true"
}

// Mkdir builds the script for creating and entering a new try.
func Mkdir(path string) string {
	return "mkdir -p " + quote(path) + " && cd " + quote(path) + " && true"
}

// Clone builds the script for cloning a repository into a new try.
func Clone(url, path string) string {
	return "git clone " + quote(url) + " " + quote(path) + " && cd " + quote(path) + " && true"
}

// Worktree builds the script for adding a git worktree of the current
// repository as a new try.
func Worktree(branch, path string) string {
	return "git worktree add " + quote(path) + " " + quote(branch) + " && cd " + quote(path) + " && true"
}

// split separates a script into the work that runs in the child shell and
// the `cd` hint for the user.
func split(script string) (work, cd string) {
	const sep = " && cd "
	i := strings.Index(script, sep)
	if i < 0 {
		return script, ""
	}
	work = script[:i]
	cd = "cd " + strings.TrimSuffix(script[i+len(sep):], " && true")
	return work, cd
}

// exitError carries a child-shell exit status up to main.
type exitError struct {
	status int
}

func (e exitError) Error() string {
	return fmt.Sprintf("child shell exited with status %d", e.status)
}

func (e exitError) ExitStatus() int {
	return e.status
}

// Emit delivers a script according to mode. Only the script (exec mode)
// or the cd hint (direct mode) goes to stdout; everything else the child
// produces stays on its inherited stderr.
func Emit(ctx context.Context, mode ModeType, script string, stdout io.Writer) error {
	if mode == ModeExec {
		fmt.Fprintln(stdout, EvalMarker)
		fmt.Fprintln(stdout, script)
		return nil
	}

	work, cd := split(script)
	if work != "" {
		cmd := util.Shell(ctx, work)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			var xerr *exec.ExitError
			if errors.As(err, &xerr) {
				return errors.Wrap(exitError{status: xerr.ExitCode()}, "shell command failed")
			}
			return errors.Wrap(err, "failed to run shell command")
		}
	}
	if cd != "" {
		fmt.Fprintln(stdout, cd)
	}
	return nil
}
