package editor

// ScrollOffset returns the viewport origin in layout units.
func (s *Session) ScrollOffset() (x, y float64) { return s.scrollX, s.scrollY }

// ScrollTo moves the viewport, clamped to the content.
func (s *Session) ScrollTo(x, y float64) {
	s.scrollX, s.scrollY = x, y
	s.clampScroll()
}

// ContentHeight returns the height of the whole laid out buffer.
func (s *Session) ContentHeight() float64 { return s.cache.Height() }

// viewHeight is the visible height; auto-height sessions show everything.
func (s *Session) viewHeight() float64 {
	if s.cfg.Mode == ModeAutoHeight || s.cfg.Height <= 0 {
		return s.cache.Height()
	}
	return s.cfg.Height
}

// ensureCaretVisible scrolls the primary caret into the viewport:
// vertically in wrap mode, horizontally in infinite-line mode.
func (s *Session) ensureCaretVisible() {
	r, err := s.cursor.VisualRectOf(s.cursor.Primary().Active)
	if err != nil {
		s.clampScroll()
		return
	}
	if w := s.textWidth(); s.cfg.Mode == ModeInfiniteLine && w > 0 {
		if r.X < s.scrollX {
			s.scrollX = r.X
		} else if r.X > s.scrollX+w {
			s.scrollX = r.X - w
		}
	}
	if s.cfg.Mode != ModeAutoHeight && s.cfg.Height > 0 {
		if r.Y < s.scrollY {
			s.scrollY = r.Y
		} else if r.Y+r.H > s.scrollY+s.cfg.Height {
			s.scrollY = r.Y + r.H - s.cfg.Height
		}
	}
	s.clampScroll()
}

func (s *Session) clampScroll() {
	if s.cfg.Mode != ModeInfiniteLine {
		s.scrollX = 0
	} else {
		s.scrollX = clampFloat(s.scrollX, 0, max(0, s.cache.Width()-s.textWidth()))
	}
	if s.cfg.Mode == ModeAutoHeight || s.cfg.Height <= 0 {
		s.scrollY = 0
	} else {
		s.scrollY = clampFloat(s.scrollY, 0, max(0, s.cache.Height()-s.cfg.Height))
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
