package editor

import (
	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
)

// Change is one recorded buffer replacement. Applying it replaces Before
// (holding Removed) with Inserted, which then spans After.
type Change struct {
	Before   buffer.Range
	After    buffer.Range
	Removed  string
	Inserted string
}

func changeFromEdit(e buffer.AppliedEdit) Change {
	return Change{
		Before:   e.RangeBefore,
		After:    e.RangeAfter,
		Removed:  e.DeletedText,
		Inserted: e.InsertText,
	}
}

// groupKind says which entries may coalesce.
type groupKind uint8

const (
	groupNone groupKind = iota
	groupTyping
	groupBackspace
	groupDeleteForward
)

// SelectionState is a saved selection set.
type SelectionState struct {
	Selections []cursor.Selection
	Primary    int
}

func saveSelections(m *cursor.Model) SelectionState {
	return SelectionState{Selections: m.Selections(), Primary: m.PrimaryIndex()}
}

// restore loads st into m, primary first so it stays primary.
func (st SelectionState) restore(m *cursor.Model) {
	if len(st.Selections) == 0 {
		m.SetPrimary(cursor.Caret(0))
		return
	}
	p := clampIndex(st.Primary, len(st.Selections))
	ordered := make([]cursor.Selection, 0, len(st.Selections))
	ordered = append(ordered, st.Selections[p])
	ordered = append(ordered, st.Selections[:p]...)
	ordered = append(ordered, st.Selections[p+1:]...)
	_ = m.Set(ordered)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Transaction is one undoable history entry.
type Transaction struct {
	Changes   []Change
	SelBefore SelectionState
	SelAfter  SelectionState

	kind groupKind
}

// history is a bounded undo/redo stack. The oldest entries are evicted
// once the limit is reached.
type history struct {
	limit  int
	undo   []Transaction
	redo   []Transaction
	sealed bool
}

func newHistory(limit int) *history {
	return &history{limit: limit, sealed: true}
}

func (h *history) seal() { h.sealed = true }

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
	h.sealed = true
}

// push records tx, coalescing it into the previous entry when both are
// adjacent edits of the same group.
func (h *history) push(tx Transaction) {
	if h.limit < 0 || len(tx.Changes) == 0 {
		return
	}
	h.redo = nil
	if n := len(h.undo); n > 0 && !h.sealed && canCoalesce(h.undo[n-1], tx) {
		prev := &h.undo[n-1]
		prev.Changes = append(prev.Changes, tx.Changes...)
		prev.SelAfter = tx.SelAfter
		return
	}
	h.undo = append(h.undo, tx)
	if len(h.undo) > h.limit {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.limit:]...)
	}
	h.sealed = tx.kind == groupNone
}

// canCoalesce allows single-selection typing that continues where the last
// insert ended, and backspace or delete runs that stay at the same edge.
func canCoalesce(prev, next Transaction) bool {
	if prev.kind == groupNone || prev.kind != next.kind {
		return false
	}
	if len(next.Changes) != 1 || len(prev.SelAfter.Selections) != 1 || len(next.SelBefore.Selections) != 1 {
		return false
	}
	last := prev.Changes[len(prev.Changes)-1]
	c := next.Changes[0]
	switch next.kind {
	case groupTyping:
		return c.Removed == "" && c.Before.Start == last.After.End
	case groupBackspace:
		return c.Inserted == "" && c.Before.End == last.After.Start
	case groupDeleteForward:
		return c.Inserted == "" && c.Before.Start == last.After.Start
	}
	return false
}

func (h *history) popUndo() (Transaction, bool) {
	n := len(h.undo)
	if n == 0 {
		return Transaction{}, false
	}
	tx := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, tx)
	h.sealed = true
	return tx, true
}

func (h *history) popRedo() (Transaction, bool) {
	n := len(h.redo)
	if n == 0 {
		return Transaction{}, false
	}
	tx := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, tx)
	h.sealed = true
	return tx, true
}

// HistoryLen returns the number of undo and redo entries.
func (s *Session) HistoryLen() (undo, redo int) {
	return len(s.hist.undo), len(s.hist.redo)
}

// Undo reverts the latest history entry and restores the selections it
// started from. It reports whether anything was undone.
func (s *Session) Undo() bool {
	if s.state == Composing {
		return false
	}
	tx, ok := s.hist.popUndo()
	if !ok {
		return false
	}
	for i := len(tx.Changes) - 1; i >= 0; i-- {
		c := tx.Changes[i]
		s.applyRaw(c.After, c.Removed)
	}
	tx.SelBefore.restore(s.cursor)
	s.afterEdit()
	return true
}

// Redo reapplies the latest undone entry.
func (s *Session) Redo() bool {
	if s.state == Composing {
		return false
	}
	tx, ok := s.hist.popRedo()
	if !ok {
		return false
	}
	for _, c := range tx.Changes {
		s.applyRaw(c.Before, c.Inserted)
	}
	tx.SelAfter.restore(s.cursor)
	s.afterEdit()
	return true
}
