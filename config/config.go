// Package config reads the optional per-user configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/try-sh/try/tokens"
)

// ColorMode specifies whether try emits ANSI colors.
type ColorMode string

const (
	ColorModeAuto ColorMode = "auto"
	ColorModeNone ColorMode = "none"
)

func (c *ColorMode) unmarshal(s string) error {
	switch s {
	case "", "auto":
		*c = ColorModeAuto
	case "none":
		*c = ColorModeNone
	default:
		return fmt.Errorf("invalid Color value %q: must be %q or %q", s, ColorModeAuto, ColorModeNone)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by the YAML decoder).
func (c *ColorMode) UnmarshalText(b []byte) error {
	return c.unmarshal(string(b))
}

// Config holds all the data that can be configured in the external
// configuration file.
type Config struct {
	// Root overrides the tries directory. Lower precedence than --path.
	Root string `yaml:"Root"`
	// Color controls ANSI output ("auto" or "none").
	Color ColorMode `yaml:"Color"`
	// Styles overrides semantic token styles by name, e.g.
	// "h1: bold fg:214".
	Styles map[string]string `yaml:"Styles"`
}

// Init loads config into its default state.
func (c *Config) Init() error {
	c.Root = ""
	c.Color = ColorModeAuto
	c.Styles = nil
	return nil
}

// DefaultPath returns the location of the config file: $TRY_CONFIG if
// set, else ~/.config/try/config.yaml. An empty string means no config.
func DefaultPath() string {
	if p := os.Getenv("TRY_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "try", "config.yaml")
}

// ReadFilename reads the config file at path. A missing file leaves the
// defaults in place and is not an error.
func (c *Config) ReadFilename(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil && err != io.EOF {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

// Palette builds the semantic token palette with any configured
// overrides applied.
func (c *Config) Palette() (*tokens.Palette, error) {
	pl := tokens.DefaultPalette()
	for name, spec := range c.Styles {
		style, err := tokens.ParseStyle(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid style for token %q", name)
		}
		if err := pl.Set(name, style); err != nil {
			return nil, errors.Wrap(err, "invalid Styles entry")
		}
	}
	return pl, nil
}
