package editor

import (
	"fmt"
	"strings"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/internal/grapheme"
)

// EditOp is one primitive edit applied through Session.Apply: Insert,
// Delete, ReplaceSelection, SetSelection or Compose.
type EditOp interface {
	isEditOp()
}

// Insert inserts Text at At.
type Insert struct {
	At   buffer.Offset
	Text string
}

// Delete removes Range.
type Delete struct {
	Range buffer.Range
}

// ReplaceSelection replaces every selection with Text and leaves a caret
// after each insertion.
type ReplaceSelection struct {
	Text string
}

// SetSelection replaces the selection set. The first selection becomes
// primary.
type SetSelection struct {
	Selections []cursor.Selection
}

// Compose replaces the provisional text of the active composition.
type Compose struct {
	Text string
}

func (Insert) isEditOp()           {}
func (Delete) isEditOp()           {}
func (ReplaceSelection) isEditOp() {}
func (SetSelection) isEditOp()     {}
func (Compose) isEditOp()          {}

func mutates(op EditOp) bool {
	switch op.(type) {
	case SetSelection:
		return false
	default:
		return true
	}
}

// Apply runs ops as a single history entry. Either every op applies or
// none does: on the first failure the buffer and selections are rolled
// back and the error is returned.
//
// Compose is only valid while composing and is not recorded in history.
func (s *Session) Apply(ops ...EditOp) error {
	if len(ops) == 0 {
		return nil
	}
	for _, op := range ops {
		if op == nil {
			return s.reject("apply", fmt.Errorf("%w: nil op", ErrInvalidOp))
		}
		if s.cfg.ReadOnly && mutates(op) {
			return s.reject("apply", ErrReadOnly)
		}
		_, compose := op.(Compose)
		if compose != (s.state == Composing) {
			return s.reject("apply", fmt.Errorf("%w: %T while %s", ErrCompositionState, op, s.state))
		}
	}

	tx := s.beginTx(groupNone)
	for _, op := range ops {
		if err := s.applyOp(&tx, op); err != nil {
			s.rollback(tx)
			return s.reject("apply", err)
		}
	}
	if s.state == Composing {
		s.afterEdit()
		return nil
	}
	s.commitTx(tx)
	return nil
}

func (s *Session) applyOp(tx *Transaction, op EditOp) error {
	switch op := op.(type) {
	case Insert:
		if op.At < 0 || op.At > s.buf.Len() {
			return fmt.Errorf("insert at %d: %w", op.At, buffer.ErrOutOfBounds)
		}
		r := buffer.Range{Start: op.At, End: op.At}
		_, _, err := s.replace(tx, r, s.limitText(r, op.Text))
		return err
	case Delete:
		_, _, err := s.replace(tx, op.Range, "")
		return err
	case ReplaceSelection:
		return s.replaceRanges(tx, s.selectionRanges(), op.Text)
	case SetSelection:
		return s.cursor.Set(op.Selections)
	case Compose:
		return s.updateComposition(op.Text)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidOp, op)
	}
}

func (s *Session) reject(op string, err error) error {
	quill.Logger().Warn("editor: "+op+" rejected", "err", err)
	return err
}

func (s *Session) beginTx(kind groupKind) Transaction {
	return Transaction{SelBefore: saveSelections(s.cursor), kind: kind}
}

// replace applies one recorded change and remaps selections. changed is
// false for no-op replacements.
func (s *Session) replace(tx *Transaction, r buffer.Range, text string) (buffer.AppliedEdit, bool, error) {
	rev := s.buf.Revision()
	if _, err := s.buf.Replace(r, text); err != nil {
		return buffer.AppliedEdit{}, false, err
	}
	if s.buf.Revision() == rev {
		return buffer.AppliedEdit{}, false, nil
	}
	e, _ := s.buf.LastEdit()
	tx.Changes = append(tx.Changes, changeFromEdit(e))
	s.cursor.Remap(e)
	return e, true, nil
}

func (s *Session) rollback(tx Transaction) {
	for i := len(tx.Changes) - 1; i >= 0; i-- {
		c := tx.Changes[i]
		s.applyRaw(c.After, c.Removed)
	}
	tx.SelBefore.restore(s.cursor)
	s.notifiedRev = s.buf.Revision()
}

// commitTx records tx and finishes the edit. Selection-only transactions
// seal the current typing group without adding an entry.
func (s *Session) commitTx(tx Transaction) {
	tx.SelAfter = saveSelections(s.cursor)
	if len(tx.Changes) == 0 {
		s.hist.seal()
		s.afterMove()
		return
	}
	s.hist.push(tx)
	s.afterEdit()
}

func (s *Session) selectionRanges() []buffer.Range {
	sels := s.cursor.Selections()
	out := make([]buffer.Range, len(sels))
	for i, sel := range sels {
		out[i] = sel.Range()
	}
	return out
}

// replaceRanges replaces ranges[i] (one per selection, in document order)
// with text and leaves a caret after each insertion. Edits run back to
// front so earlier ranges keep their offsets.
func (s *Session) replaceRanges(tx *Transaction, ranges []buffer.Range, text string) error {
	primary := s.cursor.PrimaryIndex()
	ranges = clipRanges(ranges)
	carets := make([]cursor.Selection, len(ranges))
	for k := len(ranges) - 1; k >= 0; k-- {
		r := ranges[k]
		ins := s.limitText(r, text)
		e, changed, err := s.replace(tx, r, ins)
		if err != nil {
			return err
		}
		if changed {
			for j := k + 1; j < len(ranges); j++ {
				c := e.MapOffset(carets[j].Active)
				carets[j] = cursor.Caret(c)
			}
			carets[k] = cursor.Caret(e.RangeAfter.End)
		} else {
			carets[k] = cursor.Caret(r.Start + grapheme.Count(grapheme.NormalizeNewlines(ins)))
		}
	}
	SelectionState{Selections: carets, Primary: primary}.restore(s.cursor)
	return nil
}

// clipRanges trims each range so it starts no earlier than the previous
// one ends.
func clipRanges(ranges []buffer.Range) []buffer.Range {
	out := make([]buffer.Range, len(ranges))
	for i, r := range ranges {
		r = buffer.NormalizeRange(r)
		if i > 0 && r.Start < out[i-1].End {
			r.Start = out[i-1].End
			if r.End < r.Start {
				r.End = r.Start
			}
		}
		out[i] = r
	}
	return out
}

// limitText trims text so replacing r with it respects MaxLines and
// MaxChars.
func (s *Session) limitText(r buffer.Range, text string) string {
	text = grapheme.NormalizeNewlines(text)
	orig := text
	if limit := s.cfg.MaxLines; limit > 0 {
		removed, _ := s.buf.Slice(r)
		allowed := limit - (s.buf.LineCount() - strings.Count(removed, "\n"))
		text = keepNewlines(text, allowed)
	}
	if limit := s.cfg.MaxChars; limit > 0 {
		avail := limit - (s.buf.Len() - r.Len())
		if avail < 0 {
			avail = 0
		}
		if grapheme.Count(text) > avail {
			text = grapheme.Slice(text, 0, avail)
		}
	}
	if text != orig {
		quill.Logger().Debug("editor: insert trimmed to limits",
			"max_chars", s.cfg.MaxChars, "max_lines", s.cfg.MaxLines)
	}
	return text
}

// keepNewlines cuts text before its (n+1)th line break.
func keepNewlines(text string, n int) string {
	if n < 0 {
		n = 0
	}
	idx := 0
	for i := 0; i <= n; i++ {
		j := strings.IndexByte(text[idx:], '\n')
		if j < 0 {
			return text
		}
		if i == n {
			return text[:idx+j]
		}
		idx += j + 1
	}
	return text
}
