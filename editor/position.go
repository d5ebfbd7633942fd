package editor

// Align selects where text sits inside the viewport.
type Align uint8

const (
	// AlignTopLeft places text at the top-left corner, inset by Padding.
	AlignTopLeft Align = iota
	// AlignCenter centres the laid out text in both directions while it is
	// smaller than the viewport. Padding is ignored.
	AlignCenter
	// AlignLeft insets text by Padding horizontally and centres it
	// vertically.
	AlignLeft
)

func (a Align) String() string {
	switch a {
	case AlignTopLeft:
		return "top-left"
	case AlignCenter:
		return "center"
	case AlignLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Position places text inside the viewport. The zero value is top-left
// without padding.
type Position struct {
	Align   Align
	Padding float64
}

// padX is the horizontal inset that narrows the wrap width.
func (p Position) padX() float64 {
	if p.Align == AlignCenter || p.Padding < 0 {
		return 0
	}
	return p.Padding
}

// Origin returns the viewport coordinates of the text's top-left corner.
// Snapshot geometry already includes it; pointer events are translated by
// it before hit-testing.
func (s *Session) Origin() (x, y float64) {
	p := s.cfg.Position
	switch p.Align {
	case AlignCenter:
		return centerOffset(s.cfg.Width, s.cache.Width()), s.centerY()
	case AlignLeft:
		return p.padX(), s.centerY()
	default:
		return p.padX(), max(0, p.Padding)
	}
}

func (s *Session) centerY() float64 {
	if s.cfg.Mode == ModeAutoHeight {
		return 0
	}
	return centerOffset(s.cfg.Height, s.cache.Height())
}

// centerOffset is the inset that centres content in view, or zero when the
// view is unbounded or already full.
func centerOffset(view, content float64) float64 {
	if view <= 0 || content >= view {
		return 0
	}
	return (view - content) / 2
}

// textWidth is the horizontal room left for text after padding.
func (s *Session) textWidth() float64 {
	if s.cfg.Width <= 0 {
		return s.cfg.Width
	}
	return max(1, s.cfg.Width-s.cfg.Position.padX())
}
