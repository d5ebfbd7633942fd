package buffer

import (
	"fmt"
	"sort"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// LineCount returns the number of logical lines (at least 1).
func (b *Buffer) LineCount() int { return len(b.lineRevs) }

// LineRevision returns the buffer revision at which line i last changed.
// It returns 0 for lines outside the buffer.
func (b *Buffer) LineRevision(i int) uint64 {
	if i < 0 || i >= len(b.lineRevs) {
		return 0
	}
	return b.lineRevs[i]
}

// LineAt returns the index of the line containing off.
// The offset of a line break belongs to the line it terminates.
func (b *Buffer) LineAt(off Offset) (int, error) {
	if err := b.checkOffset(off); err != nil {
		return 0, fmt.Errorf("line at: %w", err)
	}
	b.ensureLines()
	return sort.Search(len(b.starts), func(i int) bool { return b.starts[i] > off }) - 1, nil
}

// LineRange returns the range of line i without its trailing line break.
func (b *Buffer) LineRange(i int) (Range, error) {
	if i < 0 || i >= len(b.lineRevs) {
		return Range{}, fmt.Errorf("line %d (count %d): %w", i, len(b.lineRevs), ErrOutOfBounds)
	}
	b.ensureLines()
	start := b.starts[i]
	end := len(b.clusters)
	if i+1 < len(b.starts) {
		end = b.starts[i+1] - 1
	}
	return Range{Start: start, End: end}, nil
}

// LineText returns the text of line i without its line break, or "" when
// i is out of range.
func (b *Buffer) LineText(i int) string {
	r, err := b.LineRange(i)
	if err != nil {
		return ""
	}
	return grapheme.Join(b.clusters[r.Start:r.End])
}

// LineLen returns the cluster count of line i.
func (b *Buffer) LineLen(i int) int {
	r, err := b.LineRange(i)
	if err != nil {
		return 0
	}
	return r.Len()
}

// ensureLines rebuilds line starts past the clean prefix.
func (b *Buffer) ensureLines() {
	if b.clean == len(b.lineRevs) && len(b.starts) == b.clean {
		return
	}
	b.starts = b.starts[:b.clean]
	for off := b.starts[b.clean-1]; off < len(b.clusters); off++ {
		if b.clusters[off] == "\n" {
			b.starts = append(b.starts, off+1)
		}
	}
	b.clean = len(b.starts)
}

// cleanLineBefore returns the last line in the clean prefix whose start is
// at or before off. Line starts up to and including it survive any edit at
// off.
func (b *Buffer) cleanLineBefore(off Offset) int {
	k := sort.Search(b.clean, func(i int) bool { return b.starts[i] > off }) - 1
	if k < 0 {
		return 0
	}
	return k
}

// lineIndexNoRepair finds the line of off scanning only past the clean
// prefix, so pending repairs stay lazy.
func (b *Buffer) lineIndexNoRepair(off Offset) (line, cleanLine int) {
	k := b.cleanLineBefore(off)
	line = k
	for i := b.starts[k]; i < off; i++ {
		if b.clusters[i] == "\n" {
			line++
		}
	}
	return line, k
}
