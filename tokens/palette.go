package tokens

import (
	"strings"

	"github.com/pkg/errors"
)

// Style is the attribute tuple a semantic token applies atomically.
type Style struct {
	attrs []styleAttr
}

type styleAttr struct {
	typ attrType
	val int
}

// ParseStyle parses a whitespace-separated style specification such as
// "bold fg:214" or "bg:52" into a Style. Accepted terms: bold, dim,
// italic, underline, reverse, strike, the standard color names, gray,
// bright:NAME, bg:NAME, and fg:N / bg:N for 256-color palette indices.
func ParseStyle(spec string) (Style, error) {
	var s Style
	for _, term := range strings.Fields(spec) {
		switch term {
		case "bold":
			s.attrs = append(s.attrs, styleAttr{typ: attrBold})
			continue
		case "dim":
			s.attrs = append(s.attrs, styleAttr{typ: attrDim})
			continue
		case "italic":
			s.attrs = append(s.attrs, styleAttr{typ: attrItalic})
			continue
		case "underline":
			s.attrs = append(s.attrs, styleAttr{typ: attrUnderline})
			continue
		case "reverse":
			s.attrs = append(s.attrs, styleAttr{typ: attrReverse})
			continue
		case "strike":
			s.attrs = append(s.attrs, styleAttr{typ: attrStrike})
			continue
		}

		if code, ok := fgColorCode(term); ok {
			s.attrs = append(s.attrs, styleAttr{typ: attrFg, val: code})
			continue
		}
		if arg, ok := strings.CutPrefix(term, "bright:"); ok {
			if code, ok := brightColorCode(arg); ok {
				s.attrs = append(s.attrs, styleAttr{typ: attrFg, val: code})
				continue
			}
			return Style{}, errors.Errorf("unknown bright color %q", arg)
		}
		if arg, ok := strings.CutPrefix(term, "fg:"); ok {
			if n := parseNum(arg); n >= 0 && n <= 255 {
				s.attrs = append(s.attrs, styleAttr{typ: attrFg, val: fg256Base + n})
				continue
			}
			return Style{}, errors.Errorf("invalid fg palette index %q", arg)
		}
		if arg, ok := strings.CutPrefix(term, "bg:"); ok {
			if code, ok := bgColorCode(arg); ok {
				s.attrs = append(s.attrs, styleAttr{typ: attrBg, val: code})
				continue
			}
			if n := parseNum(arg); n >= 0 && n <= 255 {
				s.attrs = append(s.attrs, styleAttr{typ: attrBg, val: bg256Base + n})
				continue
			}
			return Style{}, errors.Errorf("invalid bg value %q", arg)
		}
		return Style{}, errors.Errorf("unknown style term %q", term)
	}
	return s, nil
}

// MustStyle is ParseStyle for the built-in defaults.
func MustStyle(spec string) Style {
	s, err := ParseStyle(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// Palette holds the styles behind the semantic tokens. The zero value is
// not useful; start from DefaultPalette and override entries as needed.
type Palette struct {
	H1        Style
	H2        Style
	H3        Style
	H4        Style
	H5        Style
	H6        Style
	B         Style
	Strong    Style
	Highlight Style
	Dim       Style
	Dark      Style
	Section   Style
	Danger    Style
}

// DefaultPalette returns the built-in semantic styles.
func DefaultPalette() *Palette {
	return &Palette{
		H1:        MustStyle("bold fg:214"),
		H2:        MustStyle("bold blue"),
		H3:        MustStyle("bold white"),
		H4:        MustStyle("bold white"),
		H5:        MustStyle("bold white"),
		H6:        MustStyle("bold white"),
		B:         MustStyle("bold"),
		Strong:    MustStyle("bold"),
		Highlight: MustStyle("bold yellow"),
		Dim:       MustStyle("white"),
		Dark:      MustStyle("fg:245"),
		Section:   MustStyle("bold bg:237"),
		Danger:    MustStyle("bg:52"),
	}
}

// Set overrides the named semantic style. Unknown names are reported so a
// config typo does not vanish silently.
func (pl *Palette) Set(name string, s Style) error {
	switch name {
	case "h1":
		pl.H1 = s
	case "h2":
		pl.H2 = s
	case "h3":
		pl.H3 = s
	case "h4":
		pl.H4 = s
	case "h5":
		pl.H5 = s
	case "h6":
		pl.H6 = s
	case "b":
		pl.B = s
	case "strong":
		pl.Strong = s
	case "highlight":
		pl.Highlight = s
	case "dim":
		pl.Dim = s
	case "dark":
		pl.Dark = s
	case "section":
		pl.Section = s
	case "danger":
		pl.Danger = s
	default:
		return errors.Errorf("unknown semantic token %q", name)
	}
	return nil
}

// fgColorCode maps a standard color name to its foreground SGR code.
func fgColorCode(name string) (int, bool) {
	switch name {
	case "black":
		return 30, true
	case "red":
		return 31, true
	case "green":
		return 32, true
	case "yellow":
		return 33, true
	case "blue":
		return 34, true
	case "magenta":
		return 35, true
	case "cyan":
		return 36, true
	case "white":
		return 37, true
	case "gray":
		return 90, true
	}
	return 0, false
}

// brightColorCode maps a color name to its bright foreground SGR code.
func brightColorCode(name string) (int, bool) {
	code, ok := fgColorCode(name)
	if !ok || code == 90 {
		return 0, false
	}
	return code + 60, true
}

// bgColorCode maps a color name to its background SGR code.
func bgColorCode(name string) (int, bool) {
	code, ok := fgColorCode(name)
	if !ok {
		return 0, false
	}
	if code == 90 {
		return 100, true
	}
	return code + 10, true
}

// parseNum parses a non-negative decimal integer; -1 on any non-digit or
// empty input.
func parseNum(s string) int {
	if s == "" {
		return -1
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return -1
		}
	}
	return n
}
