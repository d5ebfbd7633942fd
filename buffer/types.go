package buffer

// Offset is a grapheme-cluster index into the buffer, in [0, Len()].
type Offset = int

// Range is a half-open span of offsets: [Start, End).
type Range struct {
	Start Offset
	End   Offset
}

// Pos points into the buffer by (row, col) where Col counts grapheme
// clusters within the row. Both are 0-based.
type Pos struct {
	Row int
	Col int
}

// NormalizeRange returns r with Start <= End.
func NormalizeRange(r Range) Range {
	if r.Start <= r.End {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

func (r Range) Len() int {
	n := NormalizeRange(r)
	return n.End - n.Start
}

// Contains reports whether off lies inside r, excluding both endpoints.
func (r Range) Contains(off Offset) bool {
	n := NormalizeRange(r)
	return off > n.Start && off < n.End
}

// ComparePos orders positions in document order.
func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampOffset clamps off into [0, n].
func ClampOffset(off Offset, n int) Offset {
	return clampInt(off, 0, n)
}
