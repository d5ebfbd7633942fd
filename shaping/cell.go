package shaping

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// CellShaper lays text out on a terminal grid: every cluster advances by its
// cell width, tabs advance to the next tab stop and rows are one cell tall.
// It produces one glyph per cluster whose ID is the cluster's first rune.
type CellShaper struct {
	// EastAsian treats ambiguous-width runes as two cells.
	EastAsian bool
}

var _ Shaper = CellShaper{}

func (s CellShaper) ShapeLine(text string, style Style) Run {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = s.EastAsian

	tab := style.tabWidth()
	run := Run{
		LineHeight: 1,
		Ascent:     1,
		Direction:  DetectDirection(text),
	}

	var x float64
	i := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		c := g.Str()
		var w float64
		switch {
		case c == "\t":
			w = float64(tab - int(x)%tab)
		default:
			cw := cond.StringWidth(c)
			if cw <= 0 {
				cw = grapheme.Width(c)
			}
			w = float64(cw)
		}
		r, _ := utf8.DecodeRuneInString(c)
		run.Advances = append(run.Advances, w)
		run.Glyphs = append(run.Glyphs, Glyph{ID: uint32(r), Cluster: i, Advance: w})
		x += w
		i++
	}
	if run.Direction == RTL {
		reverseGlyphs(run.Glyphs)
	}
	return run
}

func reverseGlyphs(gs []Glyph) {
	for i, j := 0, len(gs)-1; i < j; i, j = i+1, j-1 {
		gs[i], gs[j] = gs[j], gs[i]
	}
}
