package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFilename(t *testing.T) {
	path := writeConfig(t, `
Root: /tmp/tries
Color: none
Styles:
  h1: bold red
  danger: bg:88
`)

	var c Config
	require.NoError(t, c.Init())
	require.NoError(t, c.ReadFilename(path))

	assert.Equal(t, "/tmp/tries", c.Root)
	assert.Equal(t, ColorModeNone, c.Color)

	pl, err := c.Palette()
	require.NoError(t, err)
	assert.NotNil(t, pl)
}

func TestReadFilenameMissingIsFine(t *testing.T) {
	var c Config
	require.NoError(t, c.Init())
	require.NoError(t, c.ReadFilename(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, ColorModeAuto, c.Color)
}

func TestReadFilenameBadColor(t *testing.T) {
	path := writeConfig(t, "Color: sometimes\n")
	var c Config
	require.NoError(t, c.Init())
	assert.Error(t, c.ReadFilename(path))
}

func TestPaletteBadStyle(t *testing.T) {
	c := Config{Styles: map[string]string{"h1": "sparkly"}}
	_, err := c.Palette()
	assert.Error(t, err)
}

func TestPaletteUnknownToken(t *testing.T) {
	c := Config{Styles: map[string]string{"h42": "bold"}}
	_, err := c.Palette()
	assert.Error(t, err)
}
