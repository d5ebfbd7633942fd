package editor

import (
	"strings"
	"time"

	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
)

// Event is host input delivered to a session: KeyEvent, PointerEvent,
// CompositionEvent or ClipboardEvent.
type Event interface {
	isEvent()
}

// KeyEvent is a key press.
//
// Name identifies special keys using the same names as Bubble Tea ("left",
// "enter", "backspace", "a" for ctrl+a and so on). Printable input carries
// its text in Text and leaves Name empty.
type KeyEvent struct {
	Name  string
	Text  string
	Ctrl  bool
	Alt   bool
	Shift bool
	// Paste marks bracketed paste input; its text is inserted literally.
	Paste bool
	Time  time.Time
}

// String renders the key the way key bindings spell it, for example
// "ctrl+shift+z" or "alt+left".
func (k KeyEvent) String() string {
	var sb strings.Builder
	if k.Ctrl {
		sb.WriteString("ctrl+")
	}
	if k.Alt {
		sb.WriteString("alt+")
	}
	if k.Shift {
		sb.WriteString("shift+")
	}
	if k.Name != "" {
		sb.WriteString(k.Name)
	} else {
		sb.WriteString(k.Text)
	}
	return sb.String()
}

// PointerKind is the phase of a pointer interaction.
type PointerKind uint8

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerButton identifies the pressed button.
type PointerButton uint8

const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a pointer press, drag or release. X and Y are relative to
// the session's top-left corner when delivered to a Session; the registry
// translates from host coordinates.
type PointerEvent struct {
	Kind   PointerKind
	Button PointerButton
	X, Y   float64
	Shift  bool
	Time   time.Time
}

// CompositionKind is the phase of an IME composition.
type CompositionKind uint8

const (
	CompositionStart CompositionKind = iota
	CompositionUpdate
	CompositionCommit
	CompositionCancel
)

// CompositionEvent carries IME pre-edit text. Text is the whole provisional
// string for updates and, when non-empty, the final string for commits.
type CompositionEvent struct {
	Kind CompositionKind
	Text string
}

// ClipboardKind is a clipboard action.
type ClipboardKind uint8

const (
	ClipboardCopy ClipboardKind = iota
	ClipboardCut
	ClipboardPaste
)

// ClipboardEvent asks the session to copy, cut or paste. A paste with
// non-empty Text inserts it instead of reading the clipboard bridge.
type ClipboardEvent struct {
	Kind ClipboardKind
	Text string
}

func (KeyEvent) isEvent()         {}
func (PointerEvent) isEvent()     {}
func (CompositionEvent) isEvent() {}
func (ClipboardEvent) isEvent()   {}

// ChangeEvent is passed to Config.OnChange after every content mutation.
type ChangeEvent struct {
	Revision   uint64
	Edit       buffer.AppliedEdit
	Selections []cursor.Selection
	// Text is the full content; hosts can diff if needed.
	Text string
}
