package tokens

import (
	"io"
	"strings"

	"github.com/try-sh/try/buffer"
)

// Longest token the dispatcher recognizes ({bright:magenta}, {goto:R,C}).
// A '{' with no '}' within this window is plain text.
const maxTokenLen = 24

// Expander expands brace-token markup to ANSI. The zero value expands with
// colors enabled and the default palette; callers thread one through
// explicitly instead of mutating process-wide switches.
type Expander struct {
	// NoColor suppresses every escape sequence while keeping the state
	// machine coherent, so mixed color/no-color output stays aligned.
	NoColor bool
	// Disabled turns expansion off entirely: input is copied verbatim.
	Disabled bool
	// Styles overrides the semantic token palette. Nil means defaults.
	Styles *Palette
}

// Expansion is the result of expanding one markup string.
type Expansion struct {
	// Bytes is the expanded output.
	Bytes []byte
	// CursorRow/CursorCol are the visual position recorded by {cursor},
	// 1-indexed; valid only when HasCursor is set.
	CursorRow int
	CursorCol int
	HasCursor bool
	// FinalRow/FinalCol are the visual position after the last byte.
	FinalRow int
	FinalCol int

	noColor bool
}

// RenderTo writes the expansion to w. When a cursor mark is present it
// clears to end of line, moves the terminal cursor to the mark and shows
// it — the mark itself is recorded even with color disabled, but the
// positioning escapes are suppressed then.
func (te *Expansion) RenderTo(w io.Writer) error {
	if _, err := w.Write(te.Bytes); err != nil {
		return err
	}
	if !te.HasCursor || te.noColor {
		return nil
	}
	if _, err := io.WriteString(w, "\x1b[K"); err != nil {
		return err
	}
	if te.CursorRow > 0 && te.CursorCol > 0 {
		b := buffer.Get()
		defer b.Release()
		b.Writef("\x1b[%d;%dH\x1b[?25h", te.CursorRow, te.CursorCol)
		if _, err := w.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// expander is the per-expansion parser state.
type expander struct {
	out     *buffer.Buffer
	styles  *Palette
	noColor bool

	stack [maxStackDepth]saveRecord
	depth int

	desired styleState
	emitted styleState
	dirty   bool

	row, col             int
	cursorRow, cursorCol int
	hasCursor            bool
}

// Expand expands text and returns the output bytes.
func (e *Expander) Expand(text string) []byte {
	return e.ExpandWithCursor(text).Bytes
}

// ExpandString is Expand returning a string.
func (e *Expander) ExpandString(text string) string {
	return string(e.Expand(text))
}

// ExpandWithCursor expands text and reports cursor tracking alongside the
// bytes. Expansion is total: malformed or unknown markup degrades to
// passthrough, never to an error.
func (e *Expander) ExpandWithCursor(text string) Expansion {
	res := Expansion{
		CursorRow: -1,
		CursorCol: -1,
		FinalRow:  1,
		FinalCol:  1,
		noColor:   e.NoColor,
	}
	if text == "" {
		return res
	}
	if e.Disabled {
		res.Bytes = []byte(text)
		return res
	}

	out := buffer.Get()
	defer out.Release()
	out.Grow(len(text) + len(text)/2 + 64)

	styles := e.Styles
	if styles == nil {
		styles = defaultPalette
	}
	p := expander{
		out:       out,
		styles:    styles,
		noColor:   e.NoColor,
		row:       1,
		col:       1,
		cursorRow: -1,
		cursorCol: -1,
	}

	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		switch c {
		case '\n':
			p.lineReset()
			out.WriteByte('\n')
			p.col = 1
			p.row++
			i++
		case 0x1b:
			// Copy a pre-existing CSI run verbatim; it is the caller's
			// escape, not markup, and contributes no visual columns.
			if j, ok := scanCSI(text, i); ok {
				out.WriteString(text[i:j])
				i = j
				continue
			}
			p.visible(c)
			i++
		case '{':
			if j := closingBrace(text, i); j > 0 && p.applyTag(text[i+1:j]) {
				i = j + 1
				continue
			}
			p.visible(c)
			i++
		default:
			p.visible(c)
			i++
		}
	}

	res.Bytes = append([]byte(nil), out.Bytes()...)
	res.CursorRow = p.cursorRow
	res.CursorCol = p.cursorCol
	res.HasCursor = p.hasCursor
	res.FinalRow = p.row
	res.FinalCol = p.col
	return res
}

var defaultPalette = DefaultPalette()

// visible emits one plain byte, synchronizing any pending style change
// first.
func (p *expander) visible(c byte) {
	p.sync()
	p.out.WriteByte(c)
	p.col++
}

// ctrl emits a fixed control sequence. Pending styles are synchronized
// first so the sequence lands in the state the tokens requested.
func (p *expander) ctrl(seq string) {
	p.sync()
	if !p.noColor {
		p.out.WriteString(seq)
	}
}

// scanCSI reports the end (exclusive) of an ESC [ ... sequence starting at
// i, following the CSI shape: parameter bytes 0x20-0x3F then one final
// byte 0x40-0x7E. Incomplete runs are not treated as CSI.
func scanCSI(text string, i int) (int, bool) {
	if i+1 >= len(text) || text[i+1] != '[' {
		return 0, false
	}
	j := i + 2
	for j < len(text) && text[j] >= 0x20 && text[j] <= 0x3f {
		j++
	}
	if j >= len(text) || text[j] < 0x40 || text[j] > 0x7e {
		return 0, false
	}
	return j + 1, true
}

// closingBrace finds the '}' ending a token that starts at i, or 0.
func closingBrace(text string, i int) int {
	end := i + maxTokenLen
	if end > len(text) {
		end = len(text)
	}
	for j := i + 1; j < end; j++ {
		if text[j] == '}' {
			return j
		}
		if text[j] == '{' {
			return 0
		}
	}
	return 0
}

// applyTag dispatches one token name (the text between the braces) and
// reports whether it was recognized. Unrecognized names fall back to
// passthrough at the call site. The dispatch is a fixed switch over
// substrings of the input; nothing is allocated per token.
func (p *expander) applyTag(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '/' {
		// {/} pops one entry; {/NAME} is the same pop for any NAME.
		p.pop()
		return true
	}

	if colon := strings.IndexByte(name, ':'); colon >= 0 {
		prefix, arg := name[:colon], name[colon+1:]
		switch prefix {
		case "fg":
			if n := parseNum(arg); n >= 0 && n <= 255 {
				p.applyFg(fg256Base + n)
				return true
			}
		case "bg":
			if code, ok := bgColorCode(arg); ok {
				p.applyBg(code)
				return true
			}
			if n := parseNum(arg); n >= 0 && n <= 255 {
				p.applyBg(bg256Base + n)
				return true
			}
		case "bright":
			if code, ok := brightColorCode(arg); ok {
				p.applyFg(code)
				return true
			}
		case "goto":
			if comma := strings.IndexByte(arg, ','); comma >= 0 {
				row := parseNum(arg[:comma])
				col := parseNum(arg[comma+1:])
				if row >= 0 && col >= 0 {
					p.sync()
					if !p.noColor {
						p.out.Writef("\x1b[%d;%dH", row, col)
					}
					return true
				}
			}
		}
		return false
	}

	if code, ok := fgColorCode(name); ok {
		p.applyFg(code)
		return true
	}

	switch name {
	case "b":
		p.applyStyle(p.styles.B)
	case "bold", "strong":
		p.applyStyle(p.styles.Strong)
	case "i", "italic":
		p.applyItalic()
	case "u", "underline":
		p.applyUnderline()
	case "reverse":
		p.applyReverse()
	case "strike":
		p.applyStrike()
	case "bright":
		p.applyBright()
	case "dim":
		p.applyStyle(p.styles.Dim)
	case "dark":
		p.applyStyle(p.styles.Dark)
	case "h1":
		p.applyStyle(p.styles.H1)
	case "h2":
		p.applyStyle(p.styles.H2)
	case "h3":
		p.applyStyle(p.styles.H3)
	case "h4":
		p.applyStyle(p.styles.H4)
	case "h5":
		p.applyStyle(p.styles.H5)
	case "h6":
		p.applyStyle(p.styles.H6)
	case "highlight":
		p.applyStyle(p.styles.Highlight)
	case "section":
		p.applyStyle(p.styles.Section)
	case "danger":
		p.applyStyle(p.styles.Danger)
	case "reset", "text":
		p.resetAll()
	case "cursor":
		p.cursorRow = p.row
		p.cursorCol = p.col
		p.hasCursor = true
	case "goto_cursor":
		if p.cursorRow > 0 && p.cursorCol > 0 {
			p.sync()
			if !p.noColor {
				p.out.Writef("\x1b[%d;%dH", p.cursorRow, p.cursorCol)
			}
		}
	case "clr":
		p.ctrl("\x1b[K")
	case "cls":
		p.ctrl("\x1b[J")
	case "home":
		p.ctrl("\x1b[H")
	case "hide":
		p.ctrl("\x1b[?25l")
	case "show":
		p.ctrl("\x1b[?25h")
	default:
		return false
	}
	return true
}
