package try

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// CLIOptions holds the command-line flags parsed by go-flags. Flags may
// appear anywhere on the command line; positional arguments come back to
// the caller for command routing.
type CLIOptions struct {
	OptHelp           bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion        bool   `short:"v" long:"version" description:"print the version and exit"`
	OptPath           string `long:"path" description:"directory that holds the tries"`
	OptNoColors       bool   `long:"no-colors" description:"disable ANSI color output"`
	OptNoExpandTokens bool   `long:"no-expand-tokens" description:"disable style token expansion"`
	OptAndExit        bool   `long:"and-exit" description:"render the selector once and exit (test hook)"`
	OptAndKeys        string `long:"and-keys" description:"inject keystrokes before reading the terminal (test hook)"`
}

// parse parses command-line arguments (without the program name) and
// returns the positional arguments.
func (options *CLIOptions) parse(s []string) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid command line options")
	}
	return args, nil
}

// helpText is the --help output, rendered through the token engine so the
// styling obeys --no-colors like everything else.
func helpText(defaultPath string) string {
	return `{h1}try{/} ` + version + ` - ephemeral workspace manager

{h1}To use try, add to your shell config:{/}

  {bright:blue}# bash/zsh (~/.bashrc or ~/.zshrc){/}
  eval "$(try init ~/src/tries)"

  {bright:blue}# fish (~/.config/fish/config.fish){/}
  eval (try init ~/src/tries | string collect)

{h1}Commands:{/}
  {b}try{/} [query|url]      {dim}Interactive selector, or clone if URL{/}
  {b}try clone{/} <url>      {dim}Clone repo into dated directory{/}
  {b}try worktree{/} <name>  {dim}Create worktree from current git repo{/}
  {b}try exec{/} [query]     {dim}Output shell script (for manual eval){/}
  {b}try --help{/}           {dim}Show this help{/}

{h1}Defaults:{/}
  Path: {b}~/src/tries{/} (override with {b}--path{/} or the config file)
  Current: {b}` + defaultPath + `{/}

{h1}Examples:{/}
  try clone https://github.com/user/repo.git       {bright:blue}# YYYY-MM-DD-repo{/}
  try clone https://github.com/user/repo.git foo   {bright:blue}# YYYY-MM-DD-foo{/}
  try https://github.com/user/repo.git             {bright:blue}# shorthand for clone{/}
  try worktree feature                             {bright:blue}# YYYY-MM-DD-feature{/}
`
}

// Validate checks flag combinations that go-flags cannot express.
func (options CLIOptions) Validate() error {
	if options.OptAndKeys != "" && options.OptAndExit {
		return fmt.Errorf("--and-keys and --and-exit are mutually exclusive")
	}
	return nil
}
