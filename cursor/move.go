package cursor

import (
	"math"

	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/internal/grapheme"
)

// Dir is a logical direction. Backward is up for UnitLine.
type Dir int

const (
	Backward Dir = iota
	Forward
)

// Unit is the distance covered by one Move.
type Unit int

const (
	// UnitGrapheme moves by one grapheme cluster.
	UnitGrapheme Unit = iota
	// UnitWord moves to the previous word start or the next word end.
	UnitWord
	// UnitLine moves to the previous or next visual row, keeping the
	// preferred x.
	UnitLine
	// UnitRowEdge moves to the start or end of the current visual row.
	UnitRowEdge
	// UnitDoc moves to the start or end of the buffer.
	UnitDoc
)

var noGoal = math.NaN()

// Move moves every selection. With extend the anchor stays put; without it
// a non-empty selection first collapses to the side it is moved towards.
func (m *Model) Move(dir Dir, unit Unit, extend bool) {
	items := m.items()
	for i := range items {
		it := &items[i]
		s := it.sel
		if unit != UnitLine {
			it.goal = noGoal
		}
		if !extend && !s.IsCaret() && (unit == UnitGrapheme || unit == UnitWord) {
			if dir == Backward {
				it.sel = Caret(s.Start())
			} else {
				it.sel = Caret(s.End())
			}
			continue
		}

		var to buffer.Offset
		switch unit {
		case UnitGrapheme:
			to = s.Active - 1
			if dir == Forward {
				to = s.Active + 1
			}
		case UnitWord:
			to = m.WordBoundary(s.Active, dir)
		case UnitLine:
			to, it.goal = m.verticalTarget(s.Active, dir, it.goal)
		case UnitRowEdge:
			to = m.rowEdge(s.Active, dir)
		case UnitDoc:
			to = 0
			if dir == Forward {
				to = m.buf.Len()
			}
		}
		to = buffer.ClampOffset(to, m.buf.Len())
		if extend {
			it.sel = Selection{Anchor: s.Anchor, Active: to}
		} else {
			it.sel = Caret(to)
		}
	}
	m.load(items)
}

// WordBoundary returns the offset reached from off by skipping whitespace
// (line breaks included) and then one run of same-class clusters. Clusters
// are classified as laid out, so a masked line is a single word.
func (m *Model) WordBoundary(off buffer.Offset, dir Dir) buffer.Offset {
	shown := shownText{m: m}
	class := func(i int) grapheme.Class {
		c, _ := shown.at(i)
		cl := grapheme.ClassOf(c)
		if cl == grapheme.ClassNewline {
			return grapheme.ClassSpace
		}
		return cl
	}
	n := m.buf.Len()
	i := off
	if dir == Backward {
		for i > 0 && class(i-1) == grapheme.ClassSpace {
			i--
		}
		if i > 0 {
			run := class(i - 1)
			for i > 0 && class(i-1) == run {
				i--
			}
		}
		return i
	}
	for i < n && class(i) == grapheme.ClassSpace {
		i++
	}
	if i < n {
		run := class(i)
		for i < n && class(i) == run {
			i++
		}
	}
	return i
}

// shownText reads clusters the way the layout shaped them. It keeps the
// last line it loaded.
type shownText struct {
	m          *Model
	start, end buffer.Offset
	clusters   []string
	ok         bool
}

func (t *shownText) at(i buffer.Offset) (string, bool) {
	if i < 0 || i >= t.m.buf.Len() {
		return "", false
	}
	if (!t.ok || i < t.start || i > t.end) && !t.load(i) {
		return t.m.buf.ClusterAt(i)
	}
	switch {
	case i == t.end:
		return "\n", true
	case t.clusters == nil:
		return t.m.buf.ClusterAt(i)
	}
	return t.clusters[i-t.start], true
}

// load reads the line holding i. Lines whose shaped text does not split
// into one cluster per buffer cluster fall back to the buffer.
func (t *shownText) load(i buffer.Offset) bool {
	t.ok = false
	line, err := t.m.buf.LineAt(i)
	if err != nil {
		return false
	}
	r, err := t.m.buf.LineRange(line)
	if err != nil {
		return false
	}
	t.start, t.end, t.clusters, t.ok = r.Start, r.End, nil, true
	if sl, err := t.m.layout.Line(line); err == nil {
		if cs := grapheme.Split(sl.Text); len(cs) == r.Len() {
			t.clusters = cs
		}
	}
	return true
}

// locate returns the line of off, the line start and the shaped line.
func (m *Model) locate(off buffer.Offset) (line int, start buffer.Offset, ok bool) {
	line, err := m.buf.LineAt(off)
	if err != nil {
		return 0, 0, false
	}
	r, err := m.buf.LineRange(line)
	if err != nil {
		return 0, 0, false
	}
	return line, r.Start, true
}

func (m *Model) verticalTarget(off buffer.Offset, dir Dir, goal float64) (buffer.Offset, float64) {
	line, start, ok := m.locate(off)
	if !ok {
		return off, goal
	}
	sl, err := m.layout.Line(line)
	if err != nil {
		return off, goal
	}
	row, x := sl.Caret(off - start)
	if math.IsNaN(goal) {
		goal = x
	}

	if dir == Backward {
		if row > 0 {
			return start + sl.ColAtRow(row-1, goal), goal
		}
		if line == 0 {
			return off, goal
		}
		prev, err := m.layout.Line(line - 1)
		if err != nil {
			return off, goal
		}
		r, _ := m.buf.LineRange(line - 1)
		return r.Start + prev.ColAtRow(len(prev.Rows)-1, goal), goal
	}

	if row < len(sl.Rows)-1 {
		return start + sl.ColAtRow(row+1, goal), goal
	}
	if line >= m.buf.LineCount()-1 {
		return off, goal
	}
	next, err := m.layout.Line(line + 1)
	if err != nil {
		return off, goal
	}
	r, _ := m.buf.LineRange(line + 1)
	return r.Start + next.ColAtRow(0, goal), goal
}

func (m *Model) rowEdge(off buffer.Offset, dir Dir) buffer.Offset {
	line, start, ok := m.locate(off)
	if !ok {
		return off
	}
	sl, err := m.layout.Line(line)
	if err != nil {
		return off
	}
	row, _ := sl.Caret(off - start)
	rs, re := sl.RowRange(row)
	if dir == Backward {
		return start + rs
	}
	if row < len(sl.Rows)-1 && re > rs {
		// Stay on this row: its end column belongs to the next one.
		return start + re - 1
	}
	return start + re
}
