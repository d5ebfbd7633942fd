package editor

import (
	"time"

	"github.com/iw2rmb/quill/buffer"
)

const (
	// BlinkInterval is how long the caret stays in each blink phase.
	BlinkInterval = 530 * time.Millisecond
	// DoubleClickInterval is the longest gap between presses counted as one
	// multi-click.
	DoubleClickInterval = 500 * time.Millisecond
)

type blink struct {
	since   time.Time
	visible bool
}

// resetBlink restarts the blink in its visible phase. Unfocused sessions
// stay hidden.
func (s *Session) resetBlink(now time.Time) {
	s.blink = blink{since: now, visible: s.focused}
}

// Tick advances the caret blink to now and reports whether caret
// visibility changed. Blurred sessions keep the caret hidden.
func (s *Session) Tick(now time.Time) bool {
	visible := s.focused
	if visible && now.After(s.blink.since) {
		phase := now.Sub(s.blink.since) / BlinkInterval
		visible = phase%2 == 0
	}
	if visible == s.blink.visible {
		return false
	}
	s.blink.visible = visible
	return true
}

// CaretVisible reports whether the caret is in its visible blink phase.
func (s *Session) CaretVisible() bool { return s.focused && s.blink.visible }

type clickState struct {
	at    time.Time
	off   buffer.Offset
	count int
}

// register records a press and returns the click count, cycling 1..3.
func (c *clickState) register(now time.Time, off buffer.Offset) int {
	if c.count > 0 && c.count < 3 && off == c.off && now.Sub(c.at) <= DoubleClickInterval {
		c.count++
	} else {
		c.count = 1
	}
	c.at = now
	c.off = off
	return c.count
}
