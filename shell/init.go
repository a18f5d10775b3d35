package shell

import (
	"path/filepath"
	"strings"
)

// InitScript returns the shell-integration function for the user's shell.
// The wrapper calls `try exec` and evals its output, which is how the
// picker gets to change the calling shell's working directory. shellPath
// is $SHELL; anything that does not look like fish gets the POSIX form.
func InitScript(shellPath, triesPath string) string {
	if strings.Contains(filepath.Base(shellPath), "fish") {
		return `function try
    set -l out (command try exec --path ` + quote(triesPath) + ` $argv | string collect)
    or return $status
    eval "$out"
end
`
	}
	return `try() {
    local out
    out="$(command try exec --path ` + quote(triesPath) + ` "$@")" || return $?
    eval "$out"
}
`
}
