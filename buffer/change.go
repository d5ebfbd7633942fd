package buffer

// AppliedEdit describes one effective mutation.
type AppliedEdit struct {
	RevisionBefore uint64
	RevisionAfter  uint64

	// Line is the line index holding RangeBefore.Start.
	Line int
	// LineBreaks is set when the edit inserted or removed a line break, in
	// which case every line from Line to the end changed revision.
	LineBreaks bool

	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string
}

// MapOffset maps an offset taken before the edit to the equivalent offset
// after it. Offsets inside the deleted span collapse to its start; offsets at
// or past its end shift by the length delta.
func (e AppliedEdit) MapOffset(off Offset) Offset {
	start, end := e.RangeBefore.Start, e.RangeBefore.End
	delta := e.RangeAfter.End - end
	switch {
	case off < start:
		return off
	case off == start:
		if e.RangeBefore.IsEmpty() {
			// Carets at an insertion point move past the inserted text.
			return off + delta
		}
		return off
	case off < end:
		return start
	default:
		return off + delta
	}
}
