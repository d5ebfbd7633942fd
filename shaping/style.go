package shaping

// WrapKind controls how long logical lines are split into visual rows.
//
// WrapNone keeps one visual row per logical line. WrapWord breaks after
// whitespace runs and falls back to grapheme breaks for long words.
// WrapGrapheme breaks at any grapheme boundary.
type WrapKind int

const (
	WrapNone WrapKind = iota
	WrapWord
	WrapGrapheme
)

func (k WrapKind) String() string {
	switch k {
	case WrapNone:
		return "none"
	case WrapWord:
		return "word"
	case WrapGrapheme:
		return "grapheme"
	default:
		return "unknown"
	}
}

// Direction is the base direction of a shaped line.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// Style holds everything that affects shaping and wrapping of every line.
// Units are whatever the Shaper reports: cells for CellShaper, pixels for
// GoTextShaper.
type Style struct {
	// FontSize is passed to the shaper. Ignored by CellShaper.
	FontSize float64
	// LineHeight overrides the shaper's natural line height when > 0.
	LineHeight float64
	// Width is the soft wrap width. Wrap is disabled when Width <= 0.
	Width float64
	Wrap  WrapKind
	// TabWidth is the tab stop distance in spaces (default 4).
	TabWidth int
	// Mask, when non-zero, is shaped in place of every grapheme cluster.
	Mask rune
}

func (s Style) tabWidth() int {
	if s.TabWidth <= 0 {
		return 4
	}
	return s.TabWidth
}

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
