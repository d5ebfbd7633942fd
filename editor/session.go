package editor

import (
	"time"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/shaping"
)

// State is the processor state of a session.
type State uint8

const (
	Idle State = iota
	Composing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	default:
		return "unknown"
	}
}

// Session is one independent editor: a buffer, its selections, its shaped
// layout and its undo history.
//
// A Session is not safe for concurrent use. Hosts drive it from a single
// update goroutine.
type Session struct {
	cfg Config

	buf    *buffer.Buffer
	cache  *shaping.Cache
	cursor *cursor.Model
	hist   *history

	state State
	comp  composition

	focused  bool
	released bool
	blink    blink
	click    clickState
	dragging bool

	scrollX float64
	scrollY float64

	notifiedRev uint64
	diag        chan Diagnostic
}

// New creates a session from cfg.
func New(cfg Config) *Session {
	cfg = cfg.withDefaults()
	buf := buffer.New(cfg.Text)
	cache := shaping.NewCache(buf, cfg.Shaper, cfg.shapingStyle())
	s := &Session{
		cfg:         cfg,
		buf:         buf,
		cache:       cache,
		cursor:      cursor.New(buf, cache),
		hist:        newHistory(cfg.HistoryLimit),
		notifiedRev: buf.Revision(),
		diag:        make(chan Diagnostic, diagnosticBuffer),
	}
	s.resetBlink(cfg.Clock())
	return s
}

// Buffer returns the session's text buffer. Mutating it directly bypasses
// history and selection remapping.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// Cursor returns the session's selection model.
func (s *Session) Cursor() *cursor.Model { return s.cursor }

// Layout returns the session's shaping cache.
func (s *Session) Layout() *shaping.Cache { return s.cache }

// Text returns the full buffer content.
func (s *Session) Text() string { return s.buf.Text() }

// Revision returns the buffer revision.
func (s *Session) Revision() uint64 { return s.buf.Revision() }

// State returns the processor state.
func (s *Session) State() State { return s.state }

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// ReadOnly reports whether mutations are rejected.
func (s *Session) ReadOnly() bool { return s.cfg.ReadOnly }

// SetReadOnly toggles read-only mode.
func (s *Session) SetReadOnly(v bool) { s.cfg.ReadOnly = v }

// Focused reports whether the session has keyboard focus.
func (s *Session) Focused() bool { return s.focused }

// Focus gives the session keyboard focus and restarts the caret blink.
// Sessions owned by a registry.Registry should be focused through
// Registry.Focus, which keeps at most one session focused; a direct call
// is not seen by the registry until its next Focus or Blur.
func (s *Session) Focus() {
	if s.focused {
		return
	}
	s.focused = true
	s.resetBlink(s.cfg.Clock())
}

// Blur drops focus. An active composition is committed first.
func (s *Session) Blur() {
	if !s.focused {
		return
	}
	if s.state == Composing {
		_ = s.CommitComposition()
	}
	s.focused = false
	s.dragging = false
	s.blink.visible = false
}

// SetSize changes the viewport. Wrapping modes reshape every line.
func (s *Session) SetSize(width, height float64) {
	s.cfg.Width = width
	s.cfg.Height = height
	s.cache.SetStyle(s.cfg.shapingStyle())
	s.ensureCaretVisible()
}

// SetMode switches between wrap, infinite-line and auto-height layout.
func (s *Session) SetMode(m Mode) {
	s.cfg.Mode = m
	if m != ModeInfiniteLine && s.cfg.Wrap == shaping.WrapNone {
		s.cfg.Wrap = shaping.WrapWord
	}
	s.scrollX = 0
	s.cache.SetStyle(s.cfg.shapingStyle())
	s.ensureCaretVisible()
}

// SetText replaces the content as one undoable change and puts a caret at
// the end.
func (s *Session) SetText(text string) error {
	if s.cfg.ReadOnly {
		return ErrReadOnly
	}
	if s.state == Composing {
		return ErrCompositionState
	}
	all := buffer.Range{Start: 0, End: s.buf.Len()}
	tx := s.beginTx(groupNone)
	if _, _, err := s.replace(&tx, all, s.limitText(all, text)); err != nil {
		return err
	}
	s.cursor.SetPrimary(cursor.Caret(s.buf.Len()))
	s.commitTx(tx)
	return nil
}

// Release drops cached layout and history. The session must not be used
// afterwards.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.cache.Release()
	s.hist.clear()
	s.focused = false
	quill.Logger().Debug("editor: session released", "revision", s.buf.Revision())
}

func (s *Session) now(t time.Time) time.Time {
	if t.IsZero() {
		return s.cfg.Clock()
	}
	return t
}

// applyRaw replaces r outside of history and remaps selections.
func (s *Session) applyRaw(r buffer.Range, text string) (buffer.AppliedEdit, bool) {
	rev := s.buf.Revision()
	if _, err := s.buf.Replace(r, text); err != nil {
		quill.Logger().Warn("editor: raw replace rejected", "err", err)
		return buffer.AppliedEdit{}, false
	}
	if s.buf.Revision() == rev {
		return buffer.AppliedEdit{}, false
	}
	e, _ := s.buf.LastEdit()
	s.cursor.Remap(e)
	return e, true
}

// afterEdit runs once per logical edit: it notifies listeners, restarts the
// blink and scrolls the caret into view.
func (s *Session) afterEdit() {
	if rev := s.buf.Revision(); rev != s.notifiedRev {
		s.notifiedRev = rev
		if s.cfg.OnChange != nil {
			e, _ := s.buf.LastEdit()
			s.cfg.OnChange(ChangeEvent{
				Revision:   rev,
				Edit:       e,
				Selections: s.cursor.Selections(),
				Text:       s.buf.Text(),
			})
		}
	}
	s.afterMove()
}

func (s *Session) afterMove() {
	s.resetBlink(s.cfg.Clock())
	s.ensureCaretVisible()
}
