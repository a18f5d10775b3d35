package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/try-sh/try/internal/util"
)

func TestScriptBuilders(t *testing.T) {
	assert.Equal(t,
		"touch '/t/x' && cd '/t/x' && true",
		Cd("/t/x"))
	assert.Equal(t,
		"mkdir -p '/t/x' && cd '/t/x' && true",
		Mkdir("/t/x"))
	assert.Equal(t,
		"git clone 'https://h/u/r.git' '/t/x' && cd '/t/x' && true",
		Clone("https://h/u/r.git", "/t/x"))
	assert.Equal(t,
		"git worktree add '/t/x' 'feature' && cd '/t/x' && true",
		Worktree("feature", "/t/x"))
}

func TestSplit(t *testing.T) {
	work, cd := split(Cd("/t/x"))
	assert.Equal(t, "touch '/t/x'", work)
	assert.Equal(t, "cd '/t/x'", cd)

	work, cd = split(Mkdir("/t/y"))
	assert.Equal(t, "mkdir -p '/t/y'", work)
	assert.Equal(t, "cd '/t/y'", cd)

	work, cd = split("echo hi")
	assert.Equal(t, "echo hi", work)
	assert.Equal(t, "", cd)
}

func TestEmitExecMode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Emit(context.Background(), ModeExec, Cd("/t/x"), &out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, EvalMarker, lines[0])
	assert.Equal(t, "touch '/t/x' && cd '/t/x' && true", lines[1])
}

func TestEmitDirectModeRunsWorkAndPrintsHint(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/made-by-try"

	var out bytes.Buffer
	require.NoError(t, Emit(context.Background(), ModeDirect, Mkdir(path), &out))

	// The work half ran in the child shell...
	assert.DirExists(t, path)
	// ...and stdout carries only the cd hint.
	assert.Equal(t, "cd '"+path+"'\n", out.String())
}

func TestEmitDirectModePropagatesExitStatus(t *testing.T) {
	var out bytes.Buffer
	err := Emit(context.Background(), ModeDirect, "false && cd '/nowhere' && true", &out)
	require.Error(t, err)
	st, ok := util.GetExitStatus(err)
	assert.True(t, ok)
	assert.Equal(t, 1, st)
	assert.Empty(t, out.String())
}

func TestInitScriptPosix(t *testing.T) {
	s := InitScript("/bin/bash", "/home/u/src/tries")
	assert.Contains(t, s, "try() {")
	assert.Contains(t, s, "try exec --path '/home/u/src/tries'")
	assert.Contains(t, s, `eval "$out"`)

	// zsh gets the same POSIX function.
	assert.Equal(t, s, InitScript("/usr/bin/zsh", "/home/u/src/tries"))
}

func TestInitScriptFish(t *testing.T) {
	s := InitScript("/usr/bin/fish", "/home/u/src/tries")
	assert.Contains(t, s, "function try")
	assert.Contains(t, s, "string collect")
	assert.Contains(t, s, "try exec --path '/home/u/src/tries'")
}
