// Package ui implements the interactive try selector: a raw-mode terminal
// loop over a scanned snapshot with incremental fuzzy filtering.
package ui

import (
	"io"
	"os"
	"sort"
	"time"

	"context"

	pdebug "github.com/lestrrat-go/pdebug/v2"
	"github.com/pkg/errors"

	"github.com/try-sh/try/internal/tty"
	"github.com/try-sh/try/internal/util"
	"github.com/try-sh/try/tokens"
	"github.com/try-sh/try/tries"
)

// maxFilterLen bounds the filter buffer.
const maxFilterLen = 255

// ActionType tags the outcome of a selector run.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionCd
	ActionMkdir
	ActionCancel
)

// Result is what the selector hands to the shell bridge. It is produced
// once, when the event loop exits.
type Result struct {
	Type ActionType
	Path string
}

// Screen is the frame sink. The real terminal implements it; tests use an
// in-memory double.
type Screen interface {
	io.Writer
	Size() (rows, cols int)
}

// KeyReader yields decoded keystrokes.
type KeyReader interface {
	ReadKey() (tty.Event, error)
}

// Selector runs the interactive picker. All state resets each run; the
// snapshot and filtered view live only for the duration of one Run call.
type Selector struct {
	// Root is the tries directory to scan.
	Root string
	// InitialFilter preloads the query.
	InitialFilter string
	// Term is the controlling terminal. May be nil in tests when Screen
	// and Keys are provided.
	Term *tty.Terminal
	// Screen overrides the frame sink (defaults to Term).
	Screen Screen
	// Keys overrides the key source (defaults to a reader over Term).
	Keys KeyReader
	// Expander renders the frames. Nil means a default engine.
	Expander *tokens.Expander
	// RenderOnce draws a single frame and exits (the --and-exit hook).
	RenderOnce bool
	// InjectKeys is decoded before the terminal is read (--and-keys).
	InjectKeys string

	snapshot []*tries.Entry
	view     []*tries.Entry
	filter   []byte
	selected int
	scroll   int
}

// Run scans the root and drives the event loop until an outcome is
// decided. Raw mode is entered after the scan and restored on every exit
// path, strictly before the result is returned.
func (s *Selector) Run(ctx context.Context) (res Result, err error) {
	if pdebug.Enabled {
		g := pdebug.Marker(ctx, "ui.Selector.Run").BindError(&err)
		defer g.End()
	}

	snapshot, err := tries.Scan(ctx, s.Root)
	if err != nil {
		return Result{}, err
	}
	s.snapshot = snapshot
	s.view = nil
	s.filter = s.filter[:0]
	s.selected = 0
	s.scroll = 0

	if s.InitialFilter != "" {
		s.filter = appendBounded(s.filter, s.InitialFilter)
	}
	s.refilter()

	screen := s.Screen
	if screen == nil {
		if s.Term == nil {
			return Result{}, errors.New("selector has no screen")
		}
		screen = s.Term
	}
	keys := s.Keys
	if keys == nil {
		r := tty.NewReader(s.Term)
		r.InjectKeys(s.InjectKeys)
		keys = r
	}

	if s.Term != nil {
		if err := s.Term.MakeRaw(); err != nil {
			return Result{}, err
		}
		// Idempotent; covers panics inside the loop. The explicit
		// restore below runs before the outcome is handed back.
		defer s.Term.Restore()
	}

	res = s.loop(ctx, screen, keys)

	exp := s.Expander
	if exp == nil {
		exp = &tokens.Expander{}
	}
	screen.Write(exp.Expand("{show}"))
	if s.Term != nil {
		if err := s.Term.Restore(); err != nil {
			return Result{}, err
		}
		io.WriteString(os.Stderr, "\n")
	}
	return res, nil
}

func (s *Selector) loop(ctx context.Context, screen Screen, keys KeyReader) Result {
	for {
		if err := s.renderFrame(screen); err != nil {
			return Result{Type: ActionCancel}
		}
		if s.RenderOnce {
			return Result{Type: ActionNone}
		}

		ev, err := keys.ReadKey()
		if err != nil {
			return Result{Type: ActionCancel}
		}

		switch ev.Key {
		case tty.KeyEscape, tty.KeyCtrlC:
			return Result{Type: ActionCancel}

		case tty.KeyEnter:
			if s.selected < len(s.view) {
				return Result{Type: ActionCd, Path: s.view[s.selected].Path}
			}
			if len(s.filter) > 0 {
				name := util.DatedName(time.Now(), util.SanitizeName(string(s.filter)))
				return Result{Type: ActionMkdir, Path: s.Root + "/" + name}
			}

		case tty.KeyUp:
			if s.selected > 0 {
				s.selected--
			}

		case tty.KeyDown:
			max := len(s.view)
			if len(s.filter) > 0 {
				max++
			}
			if s.selected < max-1 {
				s.selected++
			}

		case tty.KeyBackspace:
			if len(s.filter) > 0 {
				s.filter = s.filter[:len(s.filter)-1]
				s.refilter()
			}

		case tty.KeyRune:
			if len(s.filter) < maxFilterLen {
				s.filter = append(s.filter, ev.Ch)
				s.refilter()
			}
		}

		if pdebug.Enabled {
			pdebug.Printf(ctx, "selector: filter=%q selected=%d view=%d", s.filter, s.selected, len(s.view))
		}
	}
}

// refilter re-scores the snapshot against the current filter, rebuilds the
// sorted view and clamps the selection. With an empty filter every entry
// stays visible; otherwise only entries that matched.
func (s *Selector) refilter() {
	query := string(s.filter)
	s.view = s.view[:0]
	for _, e := range s.snapshot {
		e.Rescore(query)
		if query != "" && e.Score <= 0 {
			continue
		}
		s.view = append(s.view, e)
	}

	// Score descending; ties broken by mtime descending then name so the
	// order is stable across identical passes.
	sort.Slice(s.view, func(i, j int) bool {
		a, b := s.view[i], s.view[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Mtime.Equal(b.Mtime) {
			return a.Mtime.After(b.Mtime)
		}
		return a.Name < b.Name
	})

	if s.selected >= len(s.view) {
		s.selected = 0
	}
}

func appendBounded(dst []byte, s string) []byte {
	for i := 0; i < len(s) && len(dst) < maxFilterLen; i++ {
		dst = append(dst, s[i])
	}
	return dst
}
