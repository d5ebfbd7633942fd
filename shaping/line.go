package shaping

import (
	"math"
	"strings"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// Row is one visual row of a shaped line. It covers clusters [Start, End).
type Row struct {
	Start int
	End   int
	Width float64
	// Y is the top of the row relative to the top of the line.
	Y float64
}

// ShapedLine is the immutable layout of one logical line.
type ShapedLine struct {
	Line     int
	Revision uint64

	// Text is the text that was shaped; in masked styles it holds the mask
	// runes. Byte offsets always refer to the source line.
	Text     string
	Clusters int

	// Glyphs are absolute within the line box: X from the left edge, Y from
	// the line top plus any vertical glyph offset.
	Glyphs []Glyph
	Rows   []Row

	Direction  Direction
	LineHeight float64
	Ascent     float64
	Height     float64

	// caretRow[col] and caretX[col] place the caret before cluster col;
	// col == Clusters is the end of line.
	caretRow []int
	caretX   []float64
	advances []float64
	bytes    []int
}

func buildLine(source, text string, run Run, style Style) ShapedLine {
	clusters := grapheme.Split(text)
	n := len(clusters)

	adv := make([]float64, n)
	copy(adv, run.Advances)

	lh := run.LineHeight
	if style.LineHeight > 0 {
		lh = style.LineHeight
	}
	if lh <= 0 {
		lh = 1
	}

	rows := wrapRows(clusters, adv, style.Wrap, style.Width)
	for i := range rows {
		rows[i].Y = float64(i) * lh
	}

	l := ShapedLine{
		Text:       text,
		Clusters:   n,
		Rows:       rows,
		Direction:  run.Direction,
		LineHeight: lh,
		Ascent:     run.Ascent,
		Height:     float64(len(rows)) * lh,
		caretRow:   make([]int, n+1),
		caretX:     make([]float64, n+1),
		advances:   adv,
		bytes:      make([]int, n+1),
	}

	b := 0
	for i, c := range grapheme.Split(source) {
		if i >= n {
			break
		}
		l.bytes[i] = b
		b += len(c)
	}
	l.bytes[n] = len(source)

	for ri, row := range rows {
		x := 0.0
		for col := row.Start; col < row.End; col++ {
			l.caretRow[col] = ri
			l.caretX[col] = l.mirror(row, x)
			x += adv[col]
		}
		if ri == len(rows)-1 {
			l.caretRow[n] = ri
			l.caretX[n] = l.mirror(row, x)
		}
	}

	l.Glyphs = l.placeGlyphs(run.Glyphs)
	return l
}

func (l *ShapedLine) mirror(row Row, x float64) float64 {
	if l.Direction == RTL {
		return row.Width - x
	}
	return x
}

// placeGlyphs turns per-cluster glyph offsets into absolute positions. Glyphs
// of one cluster are laid out left to right from the cluster's left edge.
func (l *ShapedLine) placeGlyphs(in []Glyph) []Glyph {
	if len(in) == 0 {
		return nil
	}
	pen := make(map[int]float64, len(in))
	out := make([]Glyph, 0, len(in))
	for _, g := range in {
		c := g.Cluster
		if c < 0 || c >= l.Clusters {
			continue
		}
		left, ok := pen[c]
		if !ok {
			left, _ = l.clusterLeft(c)
		}
		row := l.Rows[l.caretRow[c]]
		out = append(out, Glyph{
			ID:      g.ID,
			Cluster: c,
			X:       left + g.X,
			Y:       row.Y + g.Y,
			Advance: g.Advance,
		})
		pen[c] = left + g.Advance
	}
	return out
}

// clusterLeft returns the left edge and width of cluster col.
func (l *ShapedLine) clusterLeft(col int) (float64, float64) {
	x := l.caretX[col]
	w := l.advances[col]
	if l.Direction == RTL {
		return x - w, w
	}
	return x, w
}

// Width is the widest row.
func (l ShapedLine) Width() float64 {
	w := 0.0
	for _, r := range l.Rows {
		w = math.Max(w, r.Width)
	}
	return w
}

// Caret returns the visual row and x of the caret before cluster col.
// col is clamped into [0, Clusters].
func (l ShapedLine) Caret(col int) (row int, x float64) {
	if len(l.caretRow) == 0 {
		return 0, 0
	}
	col = clamp(col, 0, l.Clusters)
	return l.caretRow[col], l.caretX[col]
}

// ClusterRect returns the box of cluster col relative to the line top.
func (l ShapedLine) ClusterRect(col int) (Rect, bool) {
	if col < 0 || col >= l.Clusters {
		return Rect{}, false
	}
	left, w := l.clusterLeft(col)
	row := l.Rows[l.caretRow[col]]
	return Rect{X: left, Y: row.Y, W: w, H: l.LineHeight}, true
}

// RowAt returns the row index at y relative to the line top, clamped.
func (l ShapedLine) RowAt(y float64) int {
	if l.LineHeight <= 0 || len(l.Rows) == 0 {
		return 0
	}
	return clamp(int(math.Floor(y/l.LineHeight)), 0, len(l.Rows)-1)
}

// ColAt hit-tests a point relative to the line top-left and returns the
// nearest caret column on the row under y.
func (l ShapedLine) ColAt(x, y float64) int {
	if len(l.Rows) == 0 {
		return 0
	}
	return l.ColAtRow(l.RowAt(y), x)
}

// ColAtRow returns the caret column on row ri closest to x. Only columns
// drawn on that row are candidates.
func (l ShapedLine) ColAtRow(ri int, x float64) int {
	if len(l.Rows) == 0 {
		return 0
	}
	ri = clamp(ri, 0, len(l.Rows)-1)
	row := l.Rows[ri]
	last := row.End
	if ri < len(l.Rows)-1 && row.End > row.Start {
		// The end of a wrapped row is drawn at the start of the next one.
		last = row.End - 1
	}
	best := row.Start
	bestDist := math.Inf(1)
	for col := row.Start; col <= last; col++ {
		var cx float64
		if col == row.End {
			cx = l.mirror(row, row.Width)
		} else {
			cx = l.caretX[col]
		}
		if d := math.Abs(cx - x); d < bestDist {
			best, bestDist = col, d
		}
	}
	return best
}

// RowRange returns the cluster span of row ri.
func (l ShapedLine) RowRange(ri int) (start, end int) {
	if ri < 0 || ri >= len(l.Rows) {
		return 0, 0
	}
	return l.Rows[ri].Start, l.Rows[ri].End
}

// ByteOffset returns the byte offset of cluster col within Text.
func (l ShapedLine) ByteOffset(col int) int {
	if len(l.bytes) == 0 {
		return 0
	}
	return l.bytes[clamp(col, 0, l.Clusters)]
}

// ColFromByte returns the cluster containing byte offset b.
func (l ShapedLine) ColFromByte(b int) int {
	for col := 1; col <= l.Clusters; col++ {
		if l.bytes[col] > b {
			return col - 1
		}
	}
	return l.Clusters
}

// SpanRects returns one rect per visual row covered by clusters [start, end).
func (l ShapedLine) SpanRects(start, end int) []Rect {
	start = clamp(start, 0, l.Clusters)
	end = clamp(end, 0, l.Clusters)
	if start >= end {
		return nil
	}
	var out []Rect
	for _, row := range l.Rows {
		s := max(start, row.Start)
		e := min(end, row.End)
		if s >= e {
			continue
		}
		minX, maxX := math.Inf(1), math.Inf(-1)
		for col := s; col < e; col++ {
			left, w := l.clusterLeft(col)
			minX = math.Min(minX, left)
			maxX = math.Max(maxX, left+w)
		}
		out = append(out, Rect{X: minX, Y: row.Y, W: maxX - minX, H: l.LineHeight})
	}
	return out
}

func maskText(text string, mask rune) string {
	n := grapheme.Count(text)
	if n == 0 {
		return ""
	}
	return strings.Repeat(string(mask), n)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
