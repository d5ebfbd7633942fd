package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
)

// Handle processes one host event.
//
// Key and clipboard events become edit ops recorded as one history entry.
// Composition events drive the Idle/Composing state machine and fail with
// ErrCompositionState when they do not fit it. Key events that arrive while
// composing are dropped; a pointer press commits the composition first.
func (s *Session) Handle(ev Event) error {
	switch ev := ev.(type) {
	case KeyEvent:
		return s.handleKey(ev)
	case PointerEvent:
		s.handlePointer(ev)
		return nil
	case CompositionEvent:
		return s.handleComposition(ev)
	case ClipboardEvent:
		return s.handleClipboard(ev)
	default:
		return s.reject("handle", fmt.Errorf("%w: unsupported event %T", ErrInvalidOp, ev))
	}
}

func (s *Session) handleKey(ev KeyEvent) error {
	if s.state == Composing {
		quill.Logger().Debug("editor: key dropped while composing", "key", ev.String())
		return nil
	}
	if ev.Paste {
		return s.insertText("paste", ev.Text, groupNone)
	}

	km := s.cfg.KeyMap
	switch {
	case key.Matches(ev, km.Left):
		s.move(cursor.Backward, cursor.UnitGrapheme, false)
	case key.Matches(ev, km.Right):
		s.move(cursor.Forward, cursor.UnitGrapheme, false)
	case key.Matches(ev, km.Up):
		s.move(cursor.Backward, cursor.UnitLine, false)
	case key.Matches(ev, km.Down):
		s.move(cursor.Forward, cursor.UnitLine, false)
	case key.Matches(ev, km.ShiftLeft):
		s.move(cursor.Backward, cursor.UnitGrapheme, true)
	case key.Matches(ev, km.ShiftRight):
		s.move(cursor.Forward, cursor.UnitGrapheme, true)
	case key.Matches(ev, km.ShiftUp):
		s.move(cursor.Backward, cursor.UnitLine, true)
	case key.Matches(ev, km.ShiftDown):
		s.move(cursor.Forward, cursor.UnitLine, true)
	case key.Matches(ev, km.WordLeft):
		s.move(cursor.Backward, cursor.UnitWord, false)
	case key.Matches(ev, km.WordRight):
		s.move(cursor.Forward, cursor.UnitWord, false)
	case key.Matches(ev, km.ShiftWordLeft):
		s.move(cursor.Backward, cursor.UnitWord, true)
	case key.Matches(ev, km.ShiftWordRight):
		s.move(cursor.Forward, cursor.UnitWord, true)
	case key.Matches(ev, km.Home):
		s.move(cursor.Backward, cursor.UnitRowEdge, false)
	case key.Matches(ev, km.End):
		s.move(cursor.Forward, cursor.UnitRowEdge, false)
	case key.Matches(ev, km.ShiftHome):
		s.move(cursor.Backward, cursor.UnitRowEdge, true)
	case key.Matches(ev, km.ShiftEnd):
		s.move(cursor.Forward, cursor.UnitRowEdge, true)
	case key.Matches(ev, km.DocStart):
		s.move(cursor.Backward, cursor.UnitDoc, false)
	case key.Matches(ev, km.DocEnd):
		s.move(cursor.Forward, cursor.UnitDoc, false)
	case key.Matches(ev, km.SelectAll):
		s.cursor.SelectAll()
		s.hist.seal()
		s.afterMove()
	case key.Matches(ev, km.Escape):
		s.cursor.Collapse()
		s.cursor.ClearSelections()
		s.hist.seal()
		s.afterMove()

	case key.Matches(ev, km.Backspace):
		return s.deleteUnit(cursor.Backward, cursor.UnitGrapheme, groupBackspace)
	case key.Matches(ev, km.Delete):
		return s.deleteUnit(cursor.Forward, cursor.UnitGrapheme, groupDeleteForward)
	case key.Matches(ev, km.DeleteWordLeft):
		return s.deleteUnit(cursor.Backward, cursor.UnitWord, groupNone)
	case key.Matches(ev, km.DeleteWordRight):
		return s.deleteUnit(cursor.Forward, cursor.UnitWord, groupNone)
	case key.Matches(ev, km.Enter):
		if s.cfg.MaxLines == 1 {
			quill.Logger().Debug("editor: enter ignored in single-line session")
			return nil
		}
		return s.insertText("newline", "\n", groupNone)
	case key.Matches(ev, km.Tab):
		return s.insertText("tab", "\t", groupTyping)

	case key.Matches(ev, km.Undo):
		s.Undo()
	case key.Matches(ev, km.Redo):
		s.Redo()
	case key.Matches(ev, km.Copy):
		s.copySelection()
	case key.Matches(ev, km.Cut):
		return s.cutSelection()
	case key.Matches(ev, km.Paste):
		return s.paste("")

	default:
		if ev.Text != "" && !ev.Ctrl && !ev.Alt {
			return s.insertText("type", ev.Text, groupTyping)
		}
		quill.Logger().Debug("editor: unbound key", "key", ev.String())
	}
	return nil
}

func (s *Session) move(dir cursor.Dir, unit cursor.Unit, extend bool) {
	s.cursor.Move(dir, unit, extend)
	s.hist.seal()
	s.afterMove()
}

// insertText replaces every selection with text. Typing groups only
// coalesce for plain single-line inserts at a caret.
func (s *Session) insertText(op, text string, kind groupKind) error {
	if s.cfg.ReadOnly {
		quill.Logger().Debug("editor: "+op+" rejected", "err", ErrReadOnly)
		return ErrReadOnly
	}
	if s.cfg.MaxLines == 1 {
		if i := strings.IndexAny(text, "\r\n"); i >= 0 {
			text = text[:i]
		}
	}
	if text == "" {
		return nil
	}
	if kind == groupTyping && (strings.ContainsRune(text, '\n') || s.cursor.Len() != 1 || !s.cursor.Primary().IsCaret()) {
		kind = groupNone
	}
	tx := s.beginTx(kind)
	if err := s.replaceRanges(&tx, s.selectionRanges(), text); err != nil {
		s.rollback(tx)
		return s.reject(op, err)
	}
	s.commitTx(tx)
	return nil
}

// deleteUnit removes each non-empty selection, or the unit before or after
// each caret.
func (s *Session) deleteUnit(dir cursor.Dir, unit cursor.Unit, kind groupKind) error {
	if s.cfg.ReadOnly {
		quill.Logger().Debug("editor: delete rejected", "err", ErrReadOnly)
		return ErrReadOnly
	}
	sels := s.cursor.Selections()
	ranges := make([]buffer.Range, len(sels))
	for i, sel := range sels {
		if !sel.IsCaret() {
			ranges[i] = sel.Range()
			kind = groupNone
			continue
		}
		at := sel.Active
		to := at + 1
		switch {
		case unit == cursor.UnitWord:
			to = s.cursor.WordBoundary(at, dir)
		case dir == cursor.Backward:
			to = at - 1
		}
		to = buffer.ClampOffset(to, s.buf.Len())
		ranges[i] = buffer.NormalizeRange(buffer.Range{Start: at, End: to})
	}
	if len(sels) != 1 {
		kind = groupNone
	}
	tx := s.beginTx(kind)
	if err := s.replaceRanges(&tx, ranges, ""); err != nil {
		s.rollback(tx)
		return s.reject("delete", err)
	}
	s.commitTx(tx)
	return nil
}

func (s *Session) handlePointer(ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	ox, oy := s.Origin()
	x, y := ev.X-ox+s.scrollX, ev.Y-oy+s.scrollY
	switch ev.Kind {
	case PointerPress:
		if s.state == Composing {
			_ = s.CommitComposition()
		}
		off := s.cursor.OffsetAt(x, y)
		count := s.click.register(s.now(ev.Time), off)
		switch {
		case count == 1 && ev.Shift:
			s.cursor.ExtendToVisualPoint(x, y)
		case count == 1:
			s.cursor.SetFromVisualPoint(x, y)
		case count == 2:
			s.cursor.SelectWordAt(off)
		default:
			s.cursor.SelectLineAt(off)
		}
		s.dragging = true
		s.hist.seal()
		s.afterMove()
	case PointerMove:
		if !s.dragging {
			return
		}
		s.cursor.ExtendToVisualPoint(x, y)
		s.afterMove()
	case PointerRelease:
		s.dragging = false
	}
}

func (s *Session) handleComposition(ev CompositionEvent) error {
	switch ev.Kind {
	case CompositionStart:
		if err := s.BeginComposition(); err != nil {
			return err
		}
		if ev.Text != "" {
			return s.UpdateComposition(ev.Text)
		}
		return nil
	case CompositionUpdate:
		return s.UpdateComposition(ev.Text)
	case CompositionCommit:
		if ev.Text != "" && s.state == Composing {
			if err := s.UpdateComposition(ev.Text); err != nil {
				return err
			}
		}
		return s.CommitComposition()
	case CompositionCancel:
		return s.CancelComposition()
	default:
		return s.reject("composition", fmt.Errorf("%w: unknown composition kind %d", ErrInvalidOp, ev.Kind))
	}
}

func (s *Session) handleClipboard(ev ClipboardEvent) error {
	if s.state == Composing {
		quill.Logger().Debug("editor: clipboard event dropped while composing")
		return nil
	}
	switch ev.Kind {
	case ClipboardCopy:
		s.copySelection()
		return nil
	case ClipboardCut:
		return s.cutSelection()
	case ClipboardPaste:
		return s.paste(ev.Text)
	default:
		return s.reject("clipboard", fmt.Errorf("%w: unknown clipboard kind %d", ErrInvalidOp, ev.Kind))
	}
}

// SelectedText returns the text of every non-empty selection joined by
// line breaks.
func (s *Session) SelectedText() string {
	var parts []string
	for _, sel := range s.cursor.Selections() {
		if sel.IsCaret() {
			continue
		}
		text, err := s.buf.Slice(sel.Range())
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

func (s *Session) copySelection() bool {
	if s.cfg.Mask != 0 {
		quill.Logger().Debug("editor: copy disabled for masked session")
		return false
	}
	text := s.SelectedText()
	if text == "" {
		return false
	}
	return s.writeClipboard("copy", text)
}

func (s *Session) cutSelection() error {
	if s.cfg.ReadOnly {
		quill.Logger().Debug("editor: cut rejected", "err", ErrReadOnly)
		return ErrReadOnly
	}
	// A failed copy leaves the text in place.
	if !s.copySelection() {
		return nil
	}
	tx := s.beginTx(groupNone)
	if err := s.replaceRanges(&tx, s.selectionRanges(), ""); err != nil {
		s.rollback(tx)
		return s.reject("cut", err)
	}
	s.commitTx(tx)
	return nil
}

// paste inserts text, or the clipboard content when text is empty.
func (s *Session) paste(text string) error {
	if s.cfg.ReadOnly {
		quill.Logger().Debug("editor: paste rejected", "err", ErrReadOnly)
		return ErrReadOnly
	}
	if text == "" {
		var ok bool
		if text, ok = s.readClipboard("paste"); !ok {
			return nil
		}
	}
	return s.insertText("paste", text, groupNone)
}
