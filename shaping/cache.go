package shaping

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iw2rmb/quill"
)

// ErrLineOutOfRange is returned for line indices outside the source.
var ErrLineOutOfRange = errors.New("shaping: line out of range")

// LineSource is the read side of a text buffer as seen by the cache.
// *buffer.Buffer implements it.
type LineSource interface {
	LineCount() int
	LineText(i int) string
	LineRevision(i int) uint64
}

// Stats counts cache traffic since creation or the last ResetStats.
type Stats struct {
	Hits   int
	Misses int
	// Shapes counts Shaper calls. Empty lines are laid out without one.
	Shapes int
}

type entry struct {
	line  ShapedLine
	rev   uint64
	gen   uint64
	valid bool
}

// Cache holds one ShapedLine per logical line of a LineSource.
//
// An entry is reused while its line revision and the style generation match;
// otherwise the line is reshaped. Cache is not safe for concurrent use.
type Cache struct {
	src    LineSource
	shaper Shaper
	style  Style
	gen    uint64

	entries []entry
	stats   Stats

	// tops[i] is the y of line i; tops[len] is the total height.
	tops      []float64
	topsDirty bool
}

// NewCache creates a cache over src. A nil shaper selects CellShaper.
func NewCache(src LineSource, shaper Shaper, style Style) *Cache {
	if shaper == nil {
		shaper = CellShaper{}
	}
	return &Cache{src: src, shaper: shaper, style: style, topsDirty: true}
}

// Style returns the current style.
func (c *Cache) Style() Style { return c.style }

// SetStyle replaces the style. Every entry becomes stale when it differs.
func (c *Cache) SetStyle(s Style) {
	if s == c.style {
		return
	}
	c.style = s
	c.gen++
	c.topsDirty = true
}

// SetShaper swaps the shaper and invalidates every entry.
func (c *Cache) SetShaper(s Shaper) {
	if s == nil {
		s = CellShaper{}
	}
	c.shaper = s
	c.gen++
	c.topsDirty = true
}

// Release drops all entries.
func (c *Cache) Release() {
	c.entries = nil
	c.tops = nil
	c.topsDirty = true
}

// Stats returns the traffic counters.
func (c *Cache) Stats() Stats { return c.stats }

// ResetStats zeroes the traffic counters.
func (c *Cache) ResetStats() { c.stats = Stats{} }

// Len returns the number of lines in the source.
func (c *Cache) Len() int { return c.src.LineCount() }

// Line returns the layout of line i, shaping it when the cached entry is
// missing or older than the line.
func (c *Cache) Line(i int) (ShapedLine, error) {
	n := c.src.LineCount()
	if i < 0 || i >= n {
		return ShapedLine{}, fmt.Errorf("line %d (count %d): %w", i, n, ErrLineOutOfRange)
	}
	c.syncLen(n)

	rev := c.src.LineRevision(i)
	e := &c.entries[i]
	if e.valid && e.rev == rev && e.gen == c.gen {
		c.stats.Hits++
		return e.line, nil
	}
	c.stats.Misses++

	source := c.src.LineText(i)
	text := source
	if c.style.Mask != 0 {
		text = maskText(source, c.style.Mask)
	}
	var run Run
	if text == "" {
		run = c.emptyRun()
	} else {
		run = c.shaper.ShapeLine(text, c.style)
		c.stats.Shapes++
	}
	line := buildLine(source, text, run, c.style)
	line.Line = i
	line.Revision = rev

	if !e.valid || e.line.Height != line.Height {
		c.topsDirty = true
	}
	*e = entry{line: line, rev: rev, gen: c.gen, valid: true}
	quill.Logger().Debug("shaping: line shaped", "line", i, "revision", rev, "rows", len(line.Rows))
	return line, nil
}

// emptyRun gives empty lines the natural metrics of the shaper.
func (c *Cache) emptyRun() Run {
	for i := range c.entries {
		if e := c.entries[i]; e.valid && e.gen == c.gen && e.line.Clusters > 0 {
			return Run{LineHeight: e.line.LineHeight, Ascent: e.line.Ascent}
		}
	}
	if _, ok := c.shaper.(CellShaper); ok {
		return Run{LineHeight: 1, Ascent: 1}
	}
	r := c.shaper.ShapeLine(" ", c.style)
	c.stats.Shapes++
	return Run{LineHeight: r.LineHeight, Ascent: r.Ascent}
}

func (c *Cache) syncLen(n int) {
	switch {
	case len(c.entries) > n:
		c.entries = c.entries[:n]
		c.topsDirty = true
	case len(c.entries) < n:
		c.entries = append(c.entries, make([]entry, n-len(c.entries))...)
		c.topsDirty = true
	}
}

// ensureTops shapes every line as needed and rebuilds vertical offsets.
func (c *Cache) ensureTops() {
	n := c.src.LineCount()
	for i := 0; i < n; i++ {
		_, _ = c.Line(i)
	}
	if !c.topsDirty && len(c.tops) == n+1 {
		return
	}
	c.tops = c.tops[:0]
	y := 0.0
	for i := 0; i < n; i++ {
		c.tops = append(c.tops, y)
		y += c.entries[i].line.Height
	}
	c.tops = append(c.tops, y)
	c.topsDirty = false
}

// Top returns the y offset of line i. Indices past the end return the total
// height.
func (c *Cache) Top(i int) float64 {
	c.ensureTops()
	return c.tops[clamp(i, 0, len(c.tops)-1)]
}

// Height returns the total height of all lines.
func (c *Cache) Height() float64 {
	c.ensureTops()
	return c.tops[len(c.tops)-1]
}

// Width returns the widest row of any line.
func (c *Cache) Width() float64 {
	c.ensureTops()
	w := 0.0
	for i := range c.entries {
		w = max(w, c.entries[i].line.Width())
	}
	return w
}

// LineAtY returns the line whose vertical extent contains y, clamped to the
// first and last line.
func (c *Cache) LineAtY(y float64) int {
	c.ensureTops()
	n := len(c.tops) - 1
	if n <= 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return c.tops[i+1] > y })
	return clamp(i, 0, n-1)
}
