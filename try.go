// Package try wires the ephemeral-workspace manager together: flag
// parsing, configuration, command routing, and the bridge between the
// interactive selector and the calling shell.
package try

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"context"

	pdebug "github.com/lestrrat-go/pdebug/v2"
	"github.com/pkg/errors"

	"github.com/try-sh/try/config"
	"github.com/try-sh/try/internal/tty"
	"github.com/try-sh/try/internal/util"
	"github.com/try-sh/try/shell"
	"github.com/try-sh/try/tokens"
	"github.com/try-sh/try/ui"
)

// Try is the application. One instance serves one invocation.
type Try struct {
	Argv   []string
	Stdout io.Writer
	Stderr io.Writer

	config     config.Config
	root       string
	mode       shell.ModeType
	expander   tokens.Expander
	renderOnce bool
	injectKeys string
	args       []string

	skipReadConfig bool // tests only
}

// New creates a Try wired to the process environment.
func New() *Try {
	return &Try{
		Argv:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Setup parses flags, reads the config file and resolves the tries root.
// A returned errIgnorable means "done, exit 0" (help and version).
func (t *Try) Setup(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker(ctx, "Try.Setup").BindError(&err)
		defer g.End()
	}

	if err := t.config.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize config")
	}

	var opts CLIOptions
	args, err := opts.parse(t.Argv[1:])
	if err != nil {
		return setExitStatus(err, 1)
	}
	if err := opts.Validate(); err != nil {
		return setExitStatus(err, 1)
	}
	t.args = args

	if !t.skipReadConfig {
		if err := t.config.ReadFilename(config.DefaultPath()); err != nil {
			return setExitStatus(err, 1)
		}
	}

	if err := t.applyConfig(opts); err != nil {
		return err
	}

	if opts.OptHelp {
		t.printHelp()
		return makeIgnorable(errors.New("help requested"))
	}
	if opts.OptVersion {
		fmt.Fprintf(t.Stdout, "try %s\n", version)
		return makeIgnorable(errors.New("version requested"))
	}

	return nil
}

// applyConfig folds flags, environment and the config file into the
// runtime settings. Precedence for the root: --path, config Root, then
// $HOME/src/tries.
func (t *Try) applyConfig(opts CLIOptions) error {
	noColor := opts.OptNoColors ||
		os.Getenv("NO_COLOR") != "" ||
		t.config.Color == config.ColorModeNone

	styles, err := t.config.Palette()
	if err != nil {
		return setExitStatus(err, 1)
	}

	t.expander = tokens.Expander{
		NoColor:  noColor,
		Disabled: opts.OptNoExpandTokens,
		Styles:   styles,
	}
	t.renderOnce = opts.OptAndExit
	t.injectKeys = opts.OptAndKeys

	switch {
	case opts.OptPath != "":
		t.root = util.ExpandTilde(opts.OptPath)
	case t.config.Root != "":
		t.root = util.ExpandTilde(t.config.Root)
	default:
		root, err := util.DefaultTriesPath()
		if err != nil {
			return setExitStatus(errors.Wrap(err, "could not determine tries path; set HOME or use --path"), 1)
		}
		t.root = root
	}
	return nil
}

func (t *Try) printHelp() {
	fmt.Fprint(t.Stderr, t.expander.ExpandString(helpText(t.root)))
}

// Run executes one invocation end to end.
func (t *Try) Run(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker(ctx, "Try.Run").BindError(&err)
		defer g.End()
	}

	if err := t.Setup(ctx); err != nil {
		if util.IsIgnorableError(err) {
			return nil
		}
		return err
	}

	args := t.args
	if len(args) > 0 && args[0] == "exec" {
		t.mode = shell.ModeExec
		args = args[1:]
	}

	// init only prints; it must not require the tries root to exist.
	if len(args) > 0 && args[0] == "init" {
		return t.cmdInit(args[1:])
	}

	if err := os.MkdirAll(t.root, 0o755); err != nil {
		return setExitStatus(errors.Wrapf(err, "could not create tries directory %s", t.root), 1)
	}

	switch {
	case len(args) == 0:
		return t.cmdSelector(ctx, "")
	case args[0] == "clone":
		return t.cmdClone(ctx, args[1:])
	case args[0] == "worktree":
		return t.cmdWorktree(ctx, args[1:])
	case util.IsRepoURL(args[0]):
		return t.cmdClone(ctx, args)
	default:
		return t.cmdSelector(ctx, strings.Join(args, " "))
	}
}

// writerScreen renders frames to a plain writer with default geometry;
// used by the test hooks when no controlling terminal is available.
type writerScreen struct {
	w io.Writer
}

func (s writerScreen) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s writerScreen) Size() (int, int)            { return 24, 80 }

// cmdSelector runs the interactive picker and feeds its outcome to the
// shell bridge.
func (t *Try) cmdSelector(ctx context.Context, initialQuery string) error {
	sel := &ui.Selector{
		Root:          t.root,
		InitialFilter: initialQuery,
		Expander:      &t.expander,
		RenderOnce:    t.renderOnce,
		InjectKeys:    t.injectKeys,
	}

	if t.renderOnce || t.injectKeys != "" {
		// Test hooks run without the terminal: frames go to stderr and
		// only the injected keys are read.
		sel.Screen = writerScreen{w: t.Stderr}
	} else {
		term, err := tty.Open()
		if err != nil {
			return setExitStatus(errors.Wrap(err, "selector needs a terminal"), 1)
		}
		sel.Term = term
		defer term.Close()
	}

	res, err := sel.Run(ctx)
	if err != nil {
		return setExitStatus(err, 1)
	}

	switch res.Type {
	case ui.ActionCd:
		return t.emit(ctx, shell.Cd(res.Path))
	case ui.ActionMkdir:
		return t.emit(ctx, shell.Mkdir(res.Path))
	case ui.ActionCancel:
		return errCancelled
	}
	return nil
}

// cmdClone handles `try clone URL [NAME]` and the bare-URL shorthand.
func (t *Try) cmdClone(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return setExitStatus(errors.New("clone requires a repository URL"), 1)
	}
	url := args[0]
	name := util.CloneName(url)
	if len(args) > 1 {
		name = args[1]
	}
	if name == "" {
		return setExitStatus(errors.Errorf("could not derive a directory name from %q", url), 1)
	}
	path := filepath.Join(t.root, util.DatedName(time.Now(), util.SanitizeName(name)))
	return t.emit(ctx, shell.Clone(url, path))
}

// cmdWorktree handles `try worktree NAME`: a dated worktree of the
// current repository.
func (t *Try) cmdWorktree(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return setExitStatus(errors.New("worktree requires a branch name"), 1)
	}
	name := args[0]
	path := filepath.Join(t.root, util.DatedName(time.Now(), util.SanitizeName(name)))
	return t.emit(ctx, shell.Worktree(name, path))
}

// cmdInit prints the shell-integration stub.
func (t *Try) cmdInit(args []string) error {
	path := t.root
	if len(args) > 0 {
		path = util.ExpandTilde(args[0])
	}
	fmt.Fprint(t.Stdout, shell.InitScript(os.Getenv("SHELL"), path))
	return nil
}

func (t *Try) emit(ctx context.Context, script string) error {
	return shell.Emit(ctx, t.mode, script, t.Stdout)
}
