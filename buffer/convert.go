package buffer

// ClampMode selects how conversions treat out-of-range input.
type ClampMode uint8

const (
	// OffsetError rejects out-of-range input.
	OffsetError ClampMode = iota
	// OffsetClamp clamps out-of-range input into the buffer.
	OffsetClamp
)

// PosOf converts an offset to a (row, col) position.
func (b *Buffer) PosOf(off Offset, mode ClampMode) (Pos, bool) {
	off, ok := clampOffset(off, len(b.clusters), mode)
	if !ok {
		return Pos{}, false
	}
	row, _ := b.LineAt(off)
	return Pos{Row: row, Col: off - b.starts[row]}, true
}

// OffsetOf converts a (row, col) position to an offset. A column past the
// end of its row is an error in OffsetError mode.
func (b *Buffer) OffsetOf(p Pos, mode ClampMode) (Offset, bool) {
	rows := len(b.lineRevs)
	if p.Row < 0 || p.Row >= rows {
		if mode != OffsetClamp {
			return 0, false
		}
		p.Row = clampInt(p.Row, 0, rows-1)
	}
	r, _ := b.LineRange(p.Row)
	if p.Col < 0 || p.Col > r.Len() {
		if mode != OffsetClamp {
			return 0, false
		}
		p.Col = clampInt(p.Col, 0, r.Len())
	}
	return r.Start + p.Col, true
}

// ByteOffset returns the UTF-8 byte offset of off within Text().
func (b *Buffer) ByteOffset(off Offset, mode ClampMode) (int, bool) {
	off, ok := clampOffset(off, len(b.clusters), mode)
	if !ok {
		return 0, false
	}
	n := 0
	for _, c := range b.clusters[:off] {
		n += len(c)
	}
	return n, true
}

// OffsetFromByte converts a UTF-8 byte offset within Text() to an offset.
// Byte offsets inside a cluster are rejected in OffsetError mode and snap to
// the cluster start in OffsetClamp mode.
func (b *Buffer) OffsetFromByte(byteOff int, mode ClampMode) (Offset, bool) {
	total := 0
	for _, c := range b.clusters {
		total += len(c)
	}
	byteOff, ok := clampOffset(byteOff, total, mode)
	if !ok {
		return 0, false
	}
	n := 0
	for i, c := range b.clusters {
		if n == byteOff {
			return i, true
		}
		if n+len(c) > byteOff {
			if mode == OffsetClamp {
				return i, true
			}
			return 0, false
		}
		n += len(c)
	}
	return len(b.clusters), true
}

func clampOffset(off, max int, mode ClampMode) (int, bool) {
	switch mode {
	case OffsetError:
		if off < 0 || off > max {
			return 0, false
		}
		return off, true
	case OffsetClamp:
		return clampInt(off, 0, max), true
	default:
		return 0, false
	}
}
