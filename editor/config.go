package editor

import (
	"time"

	"github.com/iw2rmb/quill/shaping"
)

// Mode selects how a session lays out long lines and sizes itself.
type Mode uint8

const (
	// ModeWrap soft-wraps lines at Width and scrolls vertically within
	// Height.
	ModeWrap Mode = iota
	// ModeInfiniteLine never wraps and scrolls horizontally to keep the
	// caret visible.
	ModeInfiniteLine
	// ModeAutoHeight wraps like ModeWrap and reports the content height in
	// the snapshot instead of scrolling.
	ModeAutoHeight
)

func (m Mode) String() string {
	switch m {
	case ModeWrap:
		return "wrap"
	case ModeInfiniteLine:
		return "infinite-line"
	case ModeAutoHeight:
		return "auto-height"
	default:
		return "unknown"
	}
}

// DefaultHistoryLimit bounds undo history when Config.HistoryLimit is unset.
const DefaultHistoryLimit = 1000

// Config configures a Session.
type Config struct {
	// Initial text for the buffer.
	Text string
	// Placeholder is reported in the snapshot while the buffer is empty.
	Placeholder string

	ReadOnly bool
	// Mask, when non-zero, hides content: every cluster is shaped as Mask
	// and copy/cut are disabled.
	Mask rune

	// MaxChars limits the buffer length in grapheme clusters, line breaks
	// included. Zero means unlimited.
	MaxChars int
	// MaxLines limits the number of logical lines. MaxLines == 1 makes a
	// single-line editor. Zero means unlimited.
	MaxLines int

	// HistoryLimit bounds the undo history (default DefaultHistoryLimit).
	// Negative disables history.
	HistoryLimit int

	Mode Mode
	// Wrap selects the wrap strategy in ModeWrap and ModeAutoHeight
	// (default shaping.WrapWord).
	Wrap shaping.WrapKind
	// Width and Height are the session's viewport in layout units.
	Width  float64
	Height float64
	// Position places text inside the viewport (default top-left).
	Position Position

	TabWidth   int
	FontSize   float64
	LineHeight float64

	KeyMap KeyMap
	// Shaper lays out lines. Nil selects shaping.CellShaper.
	Shaper shaping.Shaper
	// Styler supplies per-run styling carried in the snapshot.
	Styler Styler

	Clipboard Clipboard
	IME       IME

	// OnChange is called after every content mutation.
	OnChange func(ChangeEvent)
	// OnDiagnostic is called for every non-fatal failure.
	OnDiagnostic func(Diagnostic)

	// Clock returns the current time for events without one
	// (default time.Now).
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.HistoryLimit == 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.Mode != ModeInfiniteLine && c.Wrap == shaping.WrapNone {
		c.Wrap = shaping.WrapWord
	}
	if c.KeyMap.isZero() {
		c.KeyMap = DefaultKeyMap()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

func (c Config) shapingStyle() shaping.Style {
	st := shaping.Style{
		FontSize:   c.FontSize,
		LineHeight: c.LineHeight,
		TabWidth:   c.TabWidth,
		Mask:       c.Mask,
	}
	if c.Mode != ModeInfiniteLine {
		st.Wrap = c.Wrap
		st.Width = c.Width
		if st.Width > 0 {
			st.Width = max(1, st.Width-c.Position.padX())
		}
	}
	return st
}

func (km KeyMap) isZero() bool {
	return len(km.Left.Keys()) == 0 && len(km.Right.Keys()) == 0 && len(km.Enter.Keys()) == 0
}
