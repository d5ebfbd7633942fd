package cursor

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/shaping"
)

// ErrNoSelection is returned when an operation needs at least one selection.
var ErrNoSelection = errors.New("cursor: empty selection set")

// Layout is the part of the shaping cache the cursor model reads.
type Layout interface {
	Line(i int) (shaping.ShapedLine, error)
	Top(i int) float64
	LineAtY(y float64) int
}

// Model is the ordered, non-overlapping selection set of one session.
//
// Every method leaves the set sorted by position with overlapping
// selections merged and all offsets inside [0, buffer length].
type Model struct {
	buf    *buffer.Buffer
	layout Layout

	sels    []Selection
	goals   []float64 // preferred x per selection, NaN when unset
	primary int
}

// New creates a model with a single caret at offset 0.
func New(buf *buffer.Buffer, layout Layout) *Model {
	return &Model{
		buf:    buf,
		layout: layout,
		sels:   []Selection{Caret(0)},
		goals:  []float64{noGoal},
	}
}

// Selections returns a copy of the selection set in document order.
func (m *Model) Selections() []Selection {
	out := make([]Selection, len(m.sels))
	copy(out, m.sels)
	return out
}

// Len returns the number of selections.
func (m *Model) Len() int { return len(m.sels) }

// Primary returns the primary selection.
func (m *Model) Primary() Selection { return m.sels[m.primary] }

// PrimaryIndex returns the index of the primary selection in Selections.
func (m *Model) PrimaryIndex() int { return m.primary }

// Set replaces the selection set. The first selection given becomes primary.
// Offsets are clamped into the buffer.
func (m *Model) Set(sels []Selection) error {
	if len(sels) == 0 {
		return fmt.Errorf("set: %w", ErrNoSelection)
	}
	items := make([]tagged, len(sels))
	for i, s := range sels {
		items[i] = tagged{sel: s, primary: i == 0, goal: noGoal}
	}
	m.load(items)
	return nil
}

// SetPrimary replaces everything with one selection.
func (m *Model) SetPrimary(s Selection) {
	m.load([]tagged{{sel: s, primary: true, goal: noGoal}})
}

// Add inserts a selection and makes it primary.
func (m *Model) Add(s Selection) {
	items := m.items()
	for i := range items {
		items[i].primary = false
	}
	items = append(items, tagged{sel: s, primary: true, goal: noGoal})
	m.load(items)
}

// Collapse drops every selection except the primary one.
func (m *Model) Collapse() {
	m.load([]tagged{{sel: m.Primary(), primary: true, goal: m.goals[m.primary]}})
}

// ClearSelections turns every selection into a caret at its active end.
func (m *Model) ClearSelections() {
	items := m.items()
	for i := range items {
		items[i].sel = Caret(items[i].sel.Active)
	}
	m.load(items)
}

// SelectAll selects the whole buffer as a single selection.
func (m *Model) SelectAll() {
	m.SetPrimary(Selection{Anchor: 0, Active: m.buf.Len()})
}

// Remap moves every selection through an applied edit. An endpoint strictly
// inside the removed range collapses its whole selection to the start of
// the edit.
func (m *Model) Remap(e buffer.AppliedEdit) {
	items := m.items()
	cut := e.RangeBefore
	for i := range items {
		s := items[i].sel
		if !cut.IsEmpty() && (cut.Contains(s.Anchor) || cut.Contains(s.Active)) {
			items[i].sel = Caret(cut.Start)
		} else {
			items[i].sel = Selection{Anchor: e.MapOffset(s.Anchor), Active: e.MapOffset(s.Active)}
		}
		items[i].goal = noGoal
	}
	m.load(items)
}

// Clamp pulls every selection back inside the buffer.
func (m *Model) Clamp() { m.load(m.items()) }

func (m *Model) items() []tagged {
	items := make([]tagged, len(m.sels))
	for i, s := range m.sels {
		items[i] = tagged{sel: s, primary: i == m.primary, goal: m.goals[i]}
	}
	return items
}

func (m *Model) load(items []tagged) {
	n := m.buf.Len()
	for i := range items {
		items[i].sel = items[i].sel.clamp(n)
	}
	items, primary := normalize(items)
	m.sels = m.sels[:0]
	m.goals = m.goals[:0]
	for _, it := range items {
		m.sels = append(m.sels, it.sel)
		m.goals = append(m.goals, it.goal)
	}
	m.primary = primary
}
