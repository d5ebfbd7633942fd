package editor

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// EventFromTea translates a Bubble Tea key or mouse message into a session
// event. Mouse coordinates are passed through unchanged; hosts that place
// sessions in regions route them through the registry. Wheel and other
// messages report false.
func EventFromTea(msg tea.Msg) (Event, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return keyEventFromTea(msg), true
	case tea.MouseMsg:
		return pointerEventFromTea(msg)
	default:
		return nil, false
	}
}

func keyEventFromTea(msg tea.KeyMsg) KeyEvent {
	now := time.Now()
	switch msg.Type { //nolint:exhaustive
	case tea.KeyRunes:
		return KeyEvent{Text: string(msg.Runes), Alt: msg.Alt, Paste: msg.Paste, Time: now}
	case tea.KeySpace:
		return KeyEvent{Text: " ", Alt: msg.Alt, Time: now}
	}

	ev := KeyEvent{Time: now}
	name := msg.String()
	for {
		switch {
		case strings.HasPrefix(name, "ctrl+"):
			ev.Ctrl = true
			name = strings.TrimPrefix(name, "ctrl+")
			continue
		case strings.HasPrefix(name, "alt+"):
			ev.Alt = true
			name = strings.TrimPrefix(name, "alt+")
			continue
		case strings.HasPrefix(name, "shift+"):
			ev.Shift = true
			name = strings.TrimPrefix(name, "shift+")
			continue
		}
		break
	}
	ev.Name = name
	return ev
}

func pointerEventFromTea(msg tea.MouseMsg) (Event, bool) {
	ev := PointerEvent{X: float64(msg.X), Y: float64(msg.Y), Shift: msg.Shift, Time: time.Now()}
	switch msg.Button { //nolint:exhaustive
	case tea.MouseButtonLeft:
		ev.Button = ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = ButtonRight
	case tea.MouseButtonNone:
		if msg.Action != tea.MouseActionRelease && msg.Action != tea.MouseActionMotion {
			return nil, false
		}
	default:
		return nil, false
	}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = PointerPress
	case tea.MouseActionMotion:
		ev.Kind = PointerMove
	case tea.MouseActionRelease:
		ev.Kind = PointerRelease
	default:
		return nil, false
	}
	return ev, true
}

// IsWheel reports whether msg is a mouse wheel event and its direction:
// -1 scrolls up, 1 scrolls down.
func IsWheel(msg tea.MouseMsg) (dy int, ok bool) {
	if msg.Action != tea.MouseActionPress {
		return 0, false
	}
	switch msg.Button { //nolint:exhaustive
	case tea.MouseButtonWheelUp:
		return -1, true
	case tea.MouseButtonWheelDown:
		return 1, true
	}
	return 0, false
}
