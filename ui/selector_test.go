package ui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/try-sh/try/internal/tty"
)

// mockScreen is an in-memory frame sink with a fixed geometry.
type mockScreen struct {
	bytes.Buffer
	rows, cols int
}

func (m *mockScreen) Size() (int, int) { return m.rows, m.cols }

// newRoot creates a tries root where earlier names are newer, so the
// empty-filter ordering (score, then mtime descending) matches the listed
// order deterministically.
func newRoot(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	now := time.Now()
	for i, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(path, 0o755))
		mtime := now.Add(-time.Duration(i) * 10 * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	return root
}

func runSelector(t *testing.T, root, initial, keys string) (Result, *mockScreen) {
	t.Helper()
	screen := &mockScreen{rows: 24, cols: 80}
	r := tty.NewReader(nil)
	r.InjectKeys(keys)
	s := &Selector{
		Root:          root,
		InitialFilter: initial,
		Screen:        screen,
		Keys:          r,
	}
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	return res, screen
}

func TestSelectorEnterSelectsEntry(t *testing.T) {
	root := newRoot(t, "2025-01-15-alpha", "old-beta")
	res, _ := runSelector(t, root, "", "b\r")
	// Only old-beta contains a "b"; the dated entry is filtered out.
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "old-beta"), res.Path)
}

func TestSelectorCreateNewOnEmptyRoot(t *testing.T) {
	root := newRoot(t)
	res, _ := runSelector(t, root, "", "foo\r")
	assert.Equal(t, ActionMkdir, res.Type)
	want := root + "/" + time.Now().Format("2006-01-02") + "-foo"
	assert.Equal(t, want, res.Path)
}

func TestSelectorCreateNewSanitizesWhitespace(t *testing.T) {
	root := newRoot(t)
	res, _ := runSelector(t, root, "", "foo bar\r")
	assert.Equal(t, ActionMkdir, res.Type)
	assert.True(t, strings.HasSuffix(res.Path, "-foo-bar"), "got %s", res.Path)
}

func TestSelectorEscapeCancels(t *testing.T) {
	root := newRoot(t, "2025-01-15-alpha")
	res, _ := runSelector(t, root, "", "\x1b")
	assert.Equal(t, ActionCancel, res.Type)
}

func TestSelectorCtrlCCancels(t *testing.T) {
	root := newRoot(t, "2025-01-15-alpha")
	res, _ := runSelector(t, root, "", "\x03")
	assert.Equal(t, ActionCancel, res.Type)
}

func TestSelectorExhaustedKeysCancel(t *testing.T) {
	root := newRoot(t, "2025-01-15-alpha")
	res, _ := runSelector(t, root, "", "ab")
	assert.Equal(t, ActionCancel, res.Type)
}

func TestSelectorArrowNavigation(t *testing.T) {
	// No filter: all three score the same, so newRoot's mtimes (earlier
	// names newer) put them in listed order.
	root := newRoot(t, "aaa", "bbb", "ccc")
	res, _ := runSelector(t, root, "", "\x1b[B\r")
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "bbb"), res.Path)
}

func TestSelectorArrowUpFloorsAtZero(t *testing.T) {
	root := newRoot(t, "aaa", "bbb")
	res, _ := runSelector(t, root, "", "\x1b[A\x1b[A\r")
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "aaa"), res.Path)
}

func TestSelectorArrowDownCeiling(t *testing.T) {
	// Empty filter: the ceiling is the view length; over-stepping stays
	// on the last entry.
	root := newRoot(t, "aaa", "bbb")
	res, _ := runSelector(t, root, "", "\x1b[B\x1b[B\x1b[B\x1b[B\r")
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "bbb"), res.Path)
}

func TestSelectorDownToCreateSlot(t *testing.T) {
	// With a filter set, one step past the last match is the create slot.
	root := newRoot(t, "abc")
	res, _ := runSelector(t, root, "", "a\x1b[B\r")
	assert.Equal(t, ActionMkdir, res.Type)
	assert.True(t, strings.HasSuffix(res.Path, "-a"), "got %s", res.Path)
}

func TestSelectorBackspaceRefilters(t *testing.T) {
	root := newRoot(t, "abc", "xyz")
	// "az" matches nothing; deleting the z re-admits abc.
	res, _ := runSelector(t, root, "", "az\x7f\r")
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "abc"), res.Path)
}

func TestSelectorEnterOnEmptyRootWithoutFilterIsIgnored(t *testing.T) {
	root := newRoot(t)
	res, _ := runSelector(t, root, "", "\r\x1b")
	assert.Equal(t, ActionCancel, res.Type)
}

func TestSelectorInitialFilterPreloaded(t *testing.T) {
	root := newRoot(t, "alpha", "beta")
	res, _ := runSelector(t, root, "bet", "\r")
	assert.Equal(t, ActionCd, res.Type)
	assert.Equal(t, filepath.Join(root, "beta"), res.Path)
}

func TestSelectorRenderOnce(t *testing.T) {
	root := newRoot(t, "2025-01-15-alpha", "old-beta")
	screen := &mockScreen{rows: 24, cols: 80}
	s := &Selector{
		Root:       root,
		Screen:     screen,
		Keys:       tty.NewReader(nil),
		RenderOnce: true,
	}
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Type)

	frame := screen.String()
	assert.Contains(t, frame, "Try Directory Selection")
	assert.Contains(t, frame, "Search:")
	assert.Contains(t, frame, "alpha")
	assert.Contains(t, frame, "old-beta")
	assert.Contains(t, frame, "↑/↓: Navigate")
	// Frame homes the cursor, hides it, and clears line tails.
	assert.Contains(t, frame, "\x1b[H")
	assert.Contains(t, frame, "\x1b[?25l")
	assert.Contains(t, frame, "\x1b[K")
	assert.Contains(t, frame, "\x1b[J")
}

func TestSelectorFrameHighlightsMatches(t *testing.T) {
	root := newRoot(t, "old-beta")
	screen := &mockScreen{rows: 24, cols: 80}
	s := &Selector{
		Root:       root,
		Screen:     screen,
		Keys:       tty.NewReader(nil),
		RenderOnce: true,
	}
	s.InitialFilter = "b"
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	// The matched byte renders with the highlight style (bold yellow).
	assert.Contains(t, screen.String(), "\x1b[1;33mb")
}

func TestSelectorSelectionInvariantUnderKeySmash(t *testing.T) {
	root := newRoot(t, "aaa", "aab", "abb", "bbb")
	sequences := []string{
		"\x1b[B\x1b[B\x1b[B\x1b[B\x1b[B",
		"a\x1b[B\x1b[B\x7f\x7f",
		"zz\x1b[B\x7fz",
		"ab\x1b[A\x1b[B\x7f\x1b[B",
	}
	for i, seq := range sequences {
		t.Run(fmt.Sprintf("seq%d", i), func(t *testing.T) {
			screen := &mockScreen{rows: 10, cols: 40}
			r := tty.NewReader(nil)
			r.InjectKeys(seq)
			s := &Selector{Root: root, Screen: screen, Keys: r}
			_, err := s.Run(context.Background())
			require.NoError(t, err)

			max := len(s.view)
			if len(s.filter) == 0 && max > 0 {
				max--
			}
			assert.GreaterOrEqual(t, s.selected, 0)
			assert.LessOrEqual(t, s.selected, max)
		})
	}
}

func TestSelectorScrollKeepsSelectionVisible(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("entry-%02d", i))
	}
	root := newRoot(t, names...)
	screen := &mockScreen{rows: 12, cols: 60} // list height 4
	r := tty.NewReader(nil)
	r.InjectKeys(strings.Repeat("\x1b[B", 10))
	s := &Selector{Root: root, Screen: screen, Keys: r}
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	listHeight := 4
	assert.LessOrEqual(t, s.scroll, s.selected)
	assert.Less(t, s.selected, s.scroll+listHeight)
}
