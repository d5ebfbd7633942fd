package editor

import "errors"

var (
	// ErrCompositionState is returned for composition events that do not fit
	// the current processor state.
	ErrCompositionState = errors.New("editor: composition event in wrong state")
	// ErrClipboardUnavailable is reported when no clipboard is configured or
	// the clipboard fails.
	ErrClipboardUnavailable = errors.New("editor: clipboard unavailable")
	// ErrIMEUnavailable is reported when the host input method cannot be
	// reached.
	ErrIMEUnavailable = errors.New("editor: IME unavailable")
	// ErrReadOnly is returned for mutations of a read-only session.
	ErrReadOnly = errors.New("editor: session is read-only")
	// ErrInvalidOp is returned for malformed edit operations.
	ErrInvalidOp = errors.New("editor: invalid edit operation")
)
