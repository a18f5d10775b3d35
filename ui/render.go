package ui

import (
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/try-sh/try/buffer"
	"github.com/try-sh/try/filter"
	"github.com/try-sh/try/internal/util"
	"github.com/try-sh/try/tokens"
	"github.com/try-sh/try/tries"
)

// Fixed leading width of a list row: two-column marker, folder icon, space.
const rowPrefixWidth = 5

// renderFrame assembles one frame as token markup, expands it, and writes
// it to the screen in a single write. The frame homes the cursor first and
// every line clears to end-of-line, so shrinking content never leaves
// stale bytes behind.
func (s *Selector) renderFrame(screen Screen) error {
	rows, cols := screen.Size()

	exp := s.Expander
	if exp == nil {
		exp = &tokens.Expander{}
	}

	sep := strings.Repeat("─", cols)

	b := buffer.Get()
	defer b.Release()

	b.WriteString("{hide}{home}")
	b.WriteString("{h1}📁 Try Directory Selection{/}{clr}\r\n")
	b.WriteString("{dim}" + sep + "{/}{clr}\r\n")
	b.WriteString("{highlight}Search:{/} ")
	b.Write(s.filter)
	b.WriteString("{clr}\r\n")
	b.WriteString("{dim}" + sep + "{/}{clr}\r\n")

	listHeight := rows - 8
	if listHeight < 1 {
		listHeight = 1
	}

	// Keep the selection inside the viewport.
	if s.selected < s.scroll {
		s.scroll = s.selected
	}
	if s.selected >= s.scroll+listHeight {
		s.scroll = s.selected - listHeight + 1
	}

	for i := 0; i < listHeight; i++ {
		idx := s.scroll + i
		switch {
		case idx < len(s.view):
			s.renderEntry(b, s.view[idx], idx == s.selected, cols)
		case idx == len(s.view) && len(s.filter) > 0:
			if idx == s.selected {
				b.WriteString("{highlight}→ {/}+ Create new: ")
			} else {
				b.WriteString("  + Create new: ")
			}
			b.Write(s.filter)
			b.WriteString("{clr}\r\n")
		default:
			b.WriteString("{clr}\r\n")
		}
	}

	b.WriteString("{cls}")
	b.WriteString("{dim}" + sep + "{/}{clr}\r\n")
	b.WriteString("{dim}↑/↓: Navigate  Enter: Select  ESC: Cancel{/}{clr}\r\n")

	_, err := screen.Write(exp.Expand(b.String()))
	return err
}

// renderEntry writes one list row: marker, icon, the (possibly
// highlighted) name with its date prefix dimmed, and the right-aligned
// metadata column.
func (s *Selector) renderEntry(b *buffer.Buffer, e *tries.Entry, selected bool, cols int) {
	query := string(s.filter)

	meta := util.FormatRelativeTime(e.Mtime)
	metaBuf := buffer.Get()
	metaBuf.WriteString(meta)
	metaBuf.Writef(", %.1f", e.Score)
	metaStr := metaBuf.String()
	metaBuf.Release()

	pad := cols - rowPrefixWidth - runewidth.StringWidth(e.Name) - len(metaStr)
	if pad < 1 {
		pad = 1
	}

	if selected {
		b.WriteString("{highlight}→ {/}📁 ")
	} else {
		b.WriteString("  📁 ")
	}

	var body string
	if e.HasDatePrefix() {
		rest := e.Name[11:]
		if query != "" {
			rest = filter.Highlight(rest, query)
		}
		body = "{dim}" + e.Name[:10] + "{/}-" + rest
	} else {
		body = e.Name
		if query != "" {
			body = filter.Highlight(e.Name, query)
		}
	}

	if selected {
		b.WriteString("{reverse}")
		b.WriteString(body)
		b.WriteString("{/}")
	} else {
		b.WriteString(body)
	}

	for i := 0; i < pad; i++ {
		b.WriteByte(' ')
	}
	b.WriteString("{dim}")
	b.WriteString(metaStr)
	b.WriteString("{/}{clr}\r\n")
}
