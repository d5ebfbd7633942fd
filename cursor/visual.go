package cursor

import (
	"fmt"

	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/internal/grapheme"
	"github.com/iw2rmb/quill/shaping"
)

// OffsetAt hit-tests a point in document coordinates (x from the left edge,
// y from the top of the first line). Points outside the text clamp to the
// nearest line and column.
func (m *Model) OffsetAt(x, y float64) buffer.Offset {
	line := m.layout.LineAtY(y)
	sl, err := m.layout.Line(line)
	if err != nil {
		return 0
	}
	r, err := m.buf.LineRange(line)
	if err != nil {
		return 0
	}
	return r.Start + sl.ColAt(x, y-m.layout.Top(line))
}

// SetFromVisualPoint collapses the selection set to one caret at (x, y) and
// returns its offset.
func (m *Model) SetFromVisualPoint(x, y float64) buffer.Offset {
	off := m.OffsetAt(x, y)
	m.SetPrimary(Caret(off))
	return off
}

// ExtendToVisualPoint moves the active end of the primary selection to
// (x, y), as a drag or shift-click does.
func (m *Model) ExtendToVisualPoint(x, y float64) buffer.Offset {
	off := m.OffsetAt(x, y)
	p := m.Primary()
	m.SetPrimary(Selection{Anchor: p.Anchor, Active: off})
	return off
}

// VisualRectOf returns the caret box at off in document coordinates. The box
// has zero width and the height of one row.
func (m *Model) VisualRectOf(off buffer.Offset) (shaping.Rect, error) {
	line, err := m.buf.LineAt(off)
	if err != nil {
		return shaping.Rect{}, fmt.Errorf("visual rect: %w", err)
	}
	r, err := m.buf.LineRange(line)
	if err != nil {
		return shaping.Rect{}, fmt.Errorf("visual rect: %w", err)
	}
	sl, err := m.layout.Line(line)
	if err != nil {
		return shaping.Rect{}, fmt.Errorf("visual rect: %w", err)
	}
	row, x := sl.Caret(off - r.Start)
	return shaping.Rect{
		X: x,
		Y: m.layout.Top(line) + sl.Rows[row].Y,
		H: sl.LineHeight,
	}, nil
}

// CaretRects returns the caret box of every selection's active end.
func (m *Model) CaretRects() []shaping.Rect {
	out := make([]shaping.Rect, 0, len(m.sels))
	for _, s := range m.sels {
		if r, err := m.VisualRectOf(s.Active); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// SelectionRects returns highlight boxes for every non-empty selection, one
// per covered visual row, in document coordinates.
func (m *Model) SelectionRects() []shaping.Rect {
	var out []shaping.Rect
	for _, s := range m.sels {
		if s.IsCaret() {
			continue
		}
		out = append(out, m.RangeRects(s.Range())...)
	}
	return out
}

// RangeRects returns highlight boxes for r.
func (m *Model) RangeRects(r buffer.Range) []shaping.Rect {
	r = buffer.NormalizeRange(r)
	first, err := m.buf.LineAt(r.Start)
	if err != nil {
		return nil
	}
	last, err := m.buf.LineAt(r.End)
	if err != nil {
		return nil
	}
	var out []shaping.Rect
	for line := first; line <= last; line++ {
		lr, err := m.buf.LineRange(line)
		if err != nil {
			break
		}
		sl, err := m.layout.Line(line)
		if err != nil {
			break
		}
		top := m.layout.Top(line)
		s := max(r.Start, lr.Start) - lr.Start
		e := min(r.End, lr.End) - lr.Start
		for _, rect := range sl.SpanRects(s, e) {
			rect.Y += top
			out = append(out, rect)
		}
	}
	return out
}

// WordAt returns the range of the same-class cluster run around off.
// Whitespace runs and punctuation runs count as words of their own. At a
// line end the run before off is used.
func (m *Model) WordAt(off buffer.Offset) buffer.Range {
	n := m.buf.Len()
	off = buffer.ClampOffset(off, n)
	shown := shownText{m: m}
	inLine := func(i int) bool {
		c, ok := shown.at(i)
		return ok && c != "\n"
	}
	at := off
	if !inLine(at) && at > 0 && inLine(at-1) {
		at--
	}
	if !inLine(at) {
		return buffer.Range{Start: off, End: off}
	}
	c, _ := shown.at(at)
	class := grapheme.ClassOf(c)
	same := func(i int) bool {
		c, ok := shown.at(i)
		return ok && grapheme.ClassOf(c) == class
	}
	start, end := at, at+1
	for start > 0 && same(start-1) {
		start--
	}
	for end < n && same(end) {
		end++
	}
	return buffer.Range{Start: start, End: end}
}

// SelectWordAt selects the word around off.
func (m *Model) SelectWordAt(off buffer.Offset) {
	r := m.WordAt(off)
	m.SetPrimary(Selection{Anchor: r.Start, Active: r.End})
}

// SelectLineAt selects the logical line holding off, including its line
// break.
func (m *Model) SelectLineAt(off buffer.Offset) {
	line, err := m.buf.LineAt(buffer.ClampOffset(off, m.buf.Len()))
	if err != nil {
		return
	}
	r, _ := m.buf.LineRange(line)
	end := r.End
	if line < m.buf.LineCount()-1 {
		end++
	}
	m.SetPrimary(Selection{Anchor: r.Start, Active: end})
}
