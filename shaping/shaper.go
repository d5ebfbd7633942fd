package shaping

// Glyph is one positioned glyph.
//
// In a Run, X and Y are offsets from the pen position of the glyph's
// cluster. In a ShapedLine they are absolute within the line box.
type Glyph struct {
	ID      uint32
	Cluster int
	X, Y    float64
	Advance float64
}

// Run is the shaper output for one logical line.
type Run struct {
	// Advances holds one entry per grapheme cluster of the input, in logical
	// order. Clusters merged into a ligature share its advance.
	Advances []float64
	// Glyphs are in visual order.
	Glyphs []Glyph
	// LineHeight is the natural line height; Ascent is the baseline offset
	// from the top of a row.
	LineHeight float64
	Ascent     float64
	Direction  Direction
}

// Shaper converts a line of text into a Run. Implementations must be pure:
// the same text and style always produce the same run.
type Shaper interface {
	ShapeLine(text string, style Style) Run
}

// ShaperFunc adapts a function to the Shaper interface.
type ShaperFunc func(text string, style Style) Run

func (f ShaperFunc) ShapeLine(text string, style Style) Run { return f(text, style) }
