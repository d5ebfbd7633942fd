package buffer

import (
	"fmt"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// Buffer owns the grapheme sequence of one editing session.
//
// Every successful mutation bumps Revision exactly once. Line starts are
// derived from content and repaired lazily on the next line query; per-line
// revisions are maintained on every mutation so layout caches can tell which
// lines moved.
type Buffer struct {
	clusters []string
	revision uint64

	// lineRevs[i] is the revision at which line i last changed.
	// len(lineRevs) is always the current line count.
	lineRevs []uint64

	// starts[:clean] are valid line start offsets.
	starts []int
	clean  int

	last    AppliedEdit
	hasLast bool
}

// New creates a buffer holding text. Line endings are normalized to "\n".
func New(text string) *Buffer {
	b := &Buffer{}
	b.reset(text)
	return b
}

func (b *Buffer) reset(text string) {
	b.clusters = grapheme.Split(grapheme.NormalizeNewlines(text))
	b.lineRevs = make([]uint64, countNewlines(b.clusters)+1)
	b.starts = append(b.starts[:0], 0)
	b.clean = 1
}

// Revision returns the monotonic mutation counter.
func (b *Buffer) Revision() uint64 { return b.revision }

// Len returns the number of grapheme clusters, line breaks included.
func (b *Buffer) Len() int { return len(b.clusters) }

// Text returns the whole content.
func (b *Buffer) Text() string { return grapheme.Join(b.clusters) }

// Slice returns the text in r.
func (b *Buffer) Slice(r Range) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", fmt.Errorf("slice: %w", err)
	}
	r = NormalizeRange(r)
	return grapheme.Join(b.clusters[r.Start:r.End]), nil
}

// ClusterAt returns the cluster starting at off.
func (b *Buffer) ClusterAt(off Offset) (string, bool) {
	if off < 0 || off >= len(b.clusters) {
		return "", false
	}
	return b.clusters[off], true
}

// LastEdit returns the most recent effective mutation.
func (b *Buffer) LastEdit() (AppliedEdit, bool) {
	return b.last, b.hasLast
}

func (b *Buffer) checkOffset(off Offset) error {
	if off < 0 || off > len(b.clusters) {
		return fmt.Errorf("offset %d (len %d): %w", off, len(b.clusters), ErrOutOfBounds)
	}
	return nil
}

func (b *Buffer) checkRange(r Range) error {
	n := NormalizeRange(r)
	if n.Start < 0 || n.End > len(b.clusters) {
		return fmt.Errorf("range [%d,%d) (len %d): %w", r.Start, r.End, len(b.clusters), ErrOutOfBounds)
	}
	return nil
}

func countNewlines(clusters []string) int {
	n := 0
	for _, c := range clusters {
		if c == "\n" {
			n++
		}
	}
	return n
}
