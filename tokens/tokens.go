// Package tokens implements the brace-token markup language used for all
// terminal output. Tokens like {b}, {dim} and {red} push style state onto a
// bounded stack, {/} pops to restore, and the engine compiles the result to
// a minimal stream of ANSI SGR sequences.
//
// Style-changing tokens never emit immediately. They update the desired
// state and set a dirty flag; the engine synchronizes emitted and desired
// state right before the next visible character, newline or terminal
// control sequence. Popping a style that never produced a character
// therefore costs zero bytes.
package tokens

// Maximum nesting depth for the style stack. Pushes beyond this are
// silently dropped and the matching pops become no-ops.
const maxStackDepth = 32

// Color encoding: 0 is the terminal default, plain SGR codes are stored
// as-is (30-37/90-97 foreground, 40-47/100 background), and extended
// 256-color palette indices are offset so foreground and background
// remain distinguishable in a single int.
const (
	fg256Base = 1000
	bg256Base = 2000
)

type attrType uint8

const (
	attrNone attrType = iota
	attrBold
	attrDim
	attrItalic
	attrUnderline
	attrReverse
	attrStrike
	attrFg
	attrBg
	// attrComposite groups the N preceding saves so a semantic token
	// like {h1} pops atomically.
	attrComposite
)

// styleState is the full set of attributes the terminal can hold between
// two visible characters.
type styleState struct {
	fg, bg int
	bold   bool
	dim    bool
	italic bool
	under  bool
	rev    bool
	strike bool
}

// saveRecord is one entry on the restore stack.
type saveRecord struct {
	typ   attrType
	prev  int
	count int
}

func boolVal(b bool) int {
	if b {
		return 1
	}
	return 0
}

// push records a single-attribute save.
func (p *expander) push(typ attrType, prev int) {
	if p.depth < maxStackDepth {
		p.stack[p.depth] = saveRecord{typ: typ, prev: prev, count: 1}
		p.depth++
	}
}

// pushComposite records a grouping entry covering the n preceding saves.
func (p *expander) pushComposite(n int) {
	if p.depth < maxStackDepth {
		p.stack[p.depth] = saveRecord{typ: attrComposite, count: n}
		p.depth++
	}
}

func (p *expander) restore(typ attrType, prev int) {
	switch typ {
	case attrBold:
		p.desired.bold = prev != 0
	case attrDim:
		p.desired.dim = prev != 0
	case attrItalic:
		p.desired.italic = prev != 0
	case attrUnderline:
		p.desired.under = prev != 0
	case attrReverse:
		p.desired.rev = prev != 0
	case attrStrike:
		p.desired.strike = prev != 0
	case attrFg:
		p.desired.fg = prev
	case attrBg:
		p.desired.bg = prev
	}
}

// pop restores one stack entry. A composite entry restores its whole group.
// Popping an empty stack is a no-op.
func (p *expander) pop() {
	if p.depth == 0 {
		return
	}
	p.depth--
	e := p.stack[p.depth]
	if e.typ == attrComposite {
		for i := 0; i < e.count && p.depth > 0; i++ {
			p.depth--
			inner := p.stack[p.depth]
			p.restore(inner.typ, inner.prev)
		}
	} else {
		p.restore(e.typ, e.prev)
	}
	p.dirty = true
}

// resetAll clears every attribute and empties the stack.
func (p *expander) resetAll() {
	p.desired = styleState{}
	p.depth = 0
	p.dirty = true
}

// lineReset terminates active styling before a newline so attributes never
// leak across lines. The stack is preserved: {/} still works afterwards,
// but output on the new line starts unstyled.
func (p *expander) lineReset() {
	if p.emitted != (styleState{}) {
		if !p.noColor {
			p.out.WriteString("\x1b[0m")
		}
		p.emitted = styleState{}
	}
	p.desired = styleState{}
	p.dirty = false
}

// writeColorParam appends the SGR parameter(s) for an encoded color value.
func (p *expander) writeColorParam(sep string, color int) {
	p.out.WriteString(sep)
	switch {
	case color >= bg256Base:
		p.out.Writef("48;5;%d", color-bg256Base)
	case color >= fg256Base:
		p.out.Writef("38;5;%d", color-fg256Base)
	default:
		p.out.Writef("%d", color)
	}
}

// sync makes the emitted state match the desired state.
//
// When every difference is additive (a boolean turning on, a color going
// from default to set) a single SGR with just the changed parameters is
// emitted. As soon as anything has to turn off, SGR offers no reliable
// per-attribute disable across terminals, so the engine emits a full reset
// followed by everything currently desired.
func (p *expander) sync() {
	if !p.dirty {
		return
	}
	if p.noColor {
		// Emit nothing but keep the bookkeeping coherent.
		p.emitted = p.desired
		p.dirty = false
		return
	}

	d, e := &p.desired, &p.emitted
	needReset := (e.bold && !d.bold) ||
		(e.dim && !d.dim) ||
		(e.italic && !d.italic) ||
		(e.under && !d.under) ||
		(e.rev && !d.rev) ||
		(e.strike && !d.strike) ||
		(e.fg != 0 && d.fg == 0) ||
		(e.bg != 0 && d.bg == 0)

	if needReset {
		p.out.WriteString("\x1b[0")
		if d.bold {
			p.out.WriteString(";1")
		}
		if d.dim {
			p.out.WriteString(";2")
		}
		if d.italic {
			p.out.WriteString(";3")
		}
		if d.under {
			p.out.WriteString(";4")
		}
		if d.rev {
			p.out.WriteString(";7")
		}
		if d.strike {
			p.out.WriteString(";9")
		}
		if d.fg != 0 {
			p.writeColorParam(";", d.fg)
		}
		if d.bg != 0 {
			p.writeColorParam(";", d.bg)
		}
		p.out.WriteByte('m')
	} else {
		params := make([]byte, 0, 32)
		add := func(s string) {
			if len(params) > 0 {
				params = append(params, ';')
			}
			params = append(params, s...)
		}
		if d.bold && !e.bold {
			add("1")
		}
		if d.dim && !e.dim {
			add("2")
		}
		if d.italic && !e.italic {
			add("3")
		}
		if d.under && !e.under {
			add("4")
		}
		if d.rev && !e.rev {
			add("7")
		}
		if d.strike && !e.strike {
			add("9")
		}
		if d.fg != e.fg && d.fg != 0 {
			add(colorParam(d.fg))
		}
		if d.bg != e.bg && d.bg != 0 {
			add(colorParam(d.bg))
		}
		if len(params) > 0 {
			p.out.WriteString("\x1b[")
			p.out.Write(params)
			p.out.WriteByte('m')
		}
	}

	p.emitted = p.desired
	p.dirty = false
}

// colorParam formats an encoded color as its SGR parameter string.
func colorParam(color int) string {
	switch {
	case color >= bg256Base:
		return "48;5;" + itoa(color-bg256Base)
	case color >= fg256Base:
		return "38;5;" + itoa(color-fg256Base)
	default:
		return itoa(color)
	}
}

// itoa for the small non-negative ints SGR parameters use.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

// Style application. Each helper saves the previous value so {/} restores.

func (p *expander) applyBold() {
	p.push(attrBold, boolVal(p.desired.bold))
	p.desired.bold = true
	p.dirty = true
}

func (p *expander) applyDim() {
	p.push(attrDim, boolVal(p.desired.dim))
	p.desired.dim = true
	p.dirty = true
}

func (p *expander) applyItalic() {
	p.push(attrItalic, boolVal(p.desired.italic))
	p.desired.italic = true
	p.dirty = true
}

func (p *expander) applyUnderline() {
	p.push(attrUnderline, boolVal(p.desired.under))
	p.desired.under = true
	p.dirty = true
}

func (p *expander) applyReverse() {
	p.push(attrReverse, boolVal(p.desired.rev))
	p.desired.rev = true
	p.dirty = true
}

func (p *expander) applyStrike() {
	p.push(attrStrike, boolVal(p.desired.strike))
	p.desired.strike = true
	p.dirty = true
}

func (p *expander) applyFg(color int) {
	p.push(attrFg, p.desired.fg)
	p.desired.fg = color
	p.dirty = true
}

func (p *expander) applyBg(color int) {
	p.push(attrBg, p.desired.bg)
	p.desired.bg = color
	p.dirty = true
}

// applyBright brightens the active foreground: standard colors 30-37 map
// to their 90-97 variants, anything else becomes bright white.
func (p *expander) applyBright() {
	p.push(attrFg, p.desired.fg)
	if p.desired.fg >= 30 && p.desired.fg <= 37 {
		p.desired.fg += 60
	} else {
		p.desired.fg = 97
	}
	p.dirty = true
}

// applyStyle pushes a semantic style. Multi-attribute styles get a
// composite record on top so one {/} undoes the whole group.
func (p *expander) applyStyle(s Style) {
	n := 0
	for _, a := range s.attrs {
		switch a.typ {
		case attrBold:
			p.push(attrBold, boolVal(p.desired.bold))
			p.desired.bold = true
		case attrDim:
			p.push(attrDim, boolVal(p.desired.dim))
			p.desired.dim = true
		case attrItalic:
			p.push(attrItalic, boolVal(p.desired.italic))
			p.desired.italic = true
		case attrUnderline:
			p.push(attrUnderline, boolVal(p.desired.under))
			p.desired.under = true
		case attrReverse:
			p.push(attrReverse, boolVal(p.desired.rev))
			p.desired.rev = true
		case attrStrike:
			p.push(attrStrike, boolVal(p.desired.strike))
			p.desired.strike = true
		case attrFg:
			p.push(attrFg, p.desired.fg)
			p.desired.fg = a.val
		case attrBg:
			p.push(attrBg, p.desired.bg)
			p.desired.bg = a.val
		default:
			continue
		}
		n++
	}
	if n > 1 {
		p.pushComposite(n)
	}
	p.dirty = true
}
