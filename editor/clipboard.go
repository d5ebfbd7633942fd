package editor

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/shaping"
)

// Clipboard provides editor-level clipboard integration.
//
// Errors must not crash the host; failures degrade to no-ops and are
// reported as diagnostics.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// IME is the host input method. SetComposing tells it whether a composition
// is in progress and where the caret is, so candidate windows can follow.
type IME interface {
	SetComposing(active bool, caret shaping.Rect) error
}

// Diagnostic reports a non-fatal failure. Kind is one of the package
// sentinels; Err carries the cause.
type Diagnostic struct {
	Kind error
	Op   string
	Err  error
}

func (d Diagnostic) Error() string {
	if d.Err == nil || errors.Is(d.Err, d.Kind) {
		return fmt.Sprintf("%s: %v", d.Op, d.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", d.Op, d.Kind, d.Err)
}

func (d Diagnostic) Unwrap() []error { return []error{d.Kind, d.Err} }

const diagnosticBuffer = 64

func (s *Session) report(kind error, op string, err error) {
	d := Diagnostic{Kind: kind, Op: op, Err: err}
	quill.Logger().Warn("editor: "+op+" failed", "kind", kind, "err", err)
	select {
	case s.diag <- d:
	default:
		quill.Logger().Debug("editor: diagnostic dropped", "op", op)
	}
	if s.cfg.OnDiagnostic != nil {
		s.cfg.OnDiagnostic(d)
	}
}

// Diagnostics returns the session's diagnostic channel. It is buffered and
// never blocks the session; reports are dropped while it is full.
func (s *Session) Diagnostics() <-chan Diagnostic { return s.diag }

func (s *Session) writeClipboard(op, text string) bool {
	if s.cfg.Clipboard == nil {
		s.report(ErrClipboardUnavailable, op, nil)
		return false
	}
	if err := s.cfg.Clipboard.WriteText(text); err != nil {
		s.report(ErrClipboardUnavailable, op, err)
		return false
	}
	return true
}

func (s *Session) readClipboard(op string) (string, bool) {
	if s.cfg.Clipboard == nil {
		s.report(ErrClipboardUnavailable, op, nil)
		return "", false
	}
	text, err := s.cfg.Clipboard.ReadText()
	if err != nil {
		s.report(ErrClipboardUnavailable, op, err)
		return "", false
	}
	return text, true
}

func (s *Session) notifyIME(active bool) {
	if s.cfg.IME == nil {
		if active {
			s.report(ErrIMEUnavailable, "composition", nil)
		}
		return
	}
	caret, _ := s.cursor.VisualRectOf(s.cursor.Primary().Active)
	if err := s.cfg.IME.SetComposing(active, caret); err != nil {
		s.report(ErrIMEUnavailable, "composition", err)
	}
}
