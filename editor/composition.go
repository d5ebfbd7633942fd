package editor

import (
	"fmt"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/internal/grapheme"
)

// composition tracks the provisional IME span [start, start+n).
type composition struct {
	start    buffer.Offset
	n        int
	replaced string
	removed  int // clusters in replaced
	before   SelectionState
	// lead and trail are neighbouring clusters the provisional text merged
	// with. They stay inside the span and are written back on every update.
	lead, trail []string
}

func (c composition) span() buffer.Range {
	return buffer.Range{Start: c.start, End: c.start + c.n}
}

// Composition returns the provisional span while composing.
func (s *Session) Composition() (buffer.Range, bool) {
	if s.state != Composing {
		return buffer.Range{}, false
	}
	return s.comp.span(), true
}

// BeginComposition starts an IME composition at the primary selection.
// A non-empty primary selection is removed provisionally; other selections
// are dropped.
func (s *Session) BeginComposition() error {
	if s.state != Idle {
		return s.reject("composition start", fmt.Errorf("%w: already composing", ErrCompositionState))
	}
	if s.cfg.ReadOnly {
		return s.reject("composition start", ErrReadOnly)
	}
	s.hist.seal()
	before := saveSelections(s.cursor)
	r := s.cursor.Primary().Range()
	replaced, err := s.buf.Slice(r)
	if err != nil {
		return s.reject("composition start", err)
	}
	s.cursor.Collapse()
	if !r.IsEmpty() {
		s.applyRaw(r, "")
	}
	s.cursor.SetPrimary(cursor.Caret(r.Start))
	s.comp = composition{start: r.Start, replaced: replaced, removed: r.Len(), before: before}
	s.state = Composing
	s.notifyIME(true)
	s.afterEdit()
	quill.Logger().Debug("editor: composition started", "at", r.Start)
	return nil
}

// UpdateComposition replaces the provisional text. It is not undoable.
func (s *Session) UpdateComposition(text string) error {
	if s.state != Composing {
		return s.reject("composition update", fmt.Errorf("%w: not composing", ErrCompositionState))
	}
	if err := s.updateComposition(text); err != nil {
		return s.reject("composition update", err)
	}
	s.afterEdit()
	return nil
}

func (s *Session) updateComposition(text string) error {
	span := s.comp.span()
	own := buffer.Range{Start: span.Start + len(s.comp.lead), End: span.End - len(s.comp.trail)}
	own.Start = min(own.Start, span.End)
	own.End = max(own.End, own.Start)
	text = grapheme.Join(s.comp.lead) + s.limitText(own, text) + grapheme.Join(s.comp.trail)
	head, tail := s.lineAround(span)
	rev := s.buf.Revision()
	before := s.buf.Len()
	if _, err := s.buf.Replace(span, text); err != nil {
		return err
	}
	s.comp.n += s.buf.Len() - before
	if e, ok := s.buf.LastEdit(); ok && s.buf.Revision() != rev {
		s.comp.absorb(e, span, head, tail)
	}
	s.cursor.SetPrimary(cursor.Caret(s.comp.start + s.comp.n))
	return nil
}

// lineAround returns the clusters of r's line before and after r.
func (s *Session) lineAround(r buffer.Range) (head, tail []string) {
	line, err := s.buf.LineAt(r.Start)
	if err != nil {
		return nil, nil
	}
	lr, err := s.buf.LineRange(line)
	if err != nil {
		return nil, nil
	}
	h, _ := s.buf.Slice(buffer.Range{Start: lr.Start, End: r.Start})
	t, _ := s.buf.Slice(buffer.Range{Start: r.End, End: max(r.End, lr.End)})
	return grapheme.Split(h), grapheme.Split(t)
}

// absorb widens the span over neighbouring clusters the new text merged
// with (a combining mark joining the letter before it). The absorbed text
// becomes part of what the composition replaced.
func (c *composition) absorb(e buffer.AppliedEdit, span buffer.Range, head, tail []string) {
	if k := span.Start - e.RangeBefore.Start; k > 0 && k <= len(head) {
		lead := head[len(head)-k:]
		c.replaced = grapheme.Join(lead) + c.replaced
		c.lead = append(append([]string(nil), lead...), c.lead...)
		c.start -= k
		c.n += k
		c.removed += k
	}
	if k := e.RangeBefore.End - span.End; k > 0 && k <= len(tail) {
		trail := tail[:k]
		c.replaced += grapheme.Join(trail)
		c.trail = append(c.trail, trail...)
		c.n += k
		c.removed += k
	}
}

// CommitComposition turns the provisional text into one undoable edit.
func (s *Session) CommitComposition() error {
	if s.state != Composing {
		return s.reject("composition commit", fmt.Errorf("%w: not composing", ErrCompositionState))
	}
	c := s.comp
	s.state = Idle
	s.comp = composition{}
	inserted, _ := s.buf.Slice(c.span())
	if inserted != "" || c.replaced != "" {
		tx := Transaction{
			Changes: []Change{{
				Before:   buffer.Range{Start: c.start, End: c.start + c.removed},
				After:    c.span(),
				Removed:  c.replaced,
				Inserted: inserted,
			}},
			SelBefore: c.before,
			SelAfter:  saveSelections(s.cursor),
		}
		s.hist.seal()
		s.hist.push(tx)
	}
	s.notifyIME(false)
	s.afterEdit()
	return nil
}

// CancelComposition removes the provisional text, restores what it
// replaced and the selections from before the composition.
func (s *Session) CancelComposition() error {
	if s.state != Composing {
		return s.reject("composition cancel", fmt.Errorf("%w: not composing", ErrCompositionState))
	}
	c := s.comp
	s.state = Idle
	s.comp = composition{}
	s.applyRaw(c.span(), c.replaced)
	c.before.restore(s.cursor)
	s.notifyIME(false)
	s.afterEdit()
	return nil
}
