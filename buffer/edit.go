package buffer

import (
	"fmt"

	"github.com/iw2rmb/quill/internal/grapheme"
)

// Insert inserts text at off. Line endings are normalized to "\n".
func (b *Buffer) Insert(off Offset, text string) error {
	if err := b.checkOffset(off); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	b.replace(Range{Start: off, End: off}, text)
	return nil
}

// Delete removes r and returns the removed text.
func (b *Buffer) Delete(r Range) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", fmt.Errorf("delete: %w", err)
	}
	removed, _ := b.replace(NormalizeRange(r), "")
	return removed, nil
}

// Replace swaps the text in r for text as a single mutation.
func (b *Buffer) Replace(r Range, text string) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", fmt.Errorf("replace: %w", err)
	}
	removed, _ := b.replace(NormalizeRange(r), text)
	return removed, nil
}

// SetText replaces the whole content as a single mutation.
func (b *Buffer) SetText(text string) {
	b.replace(Range{Start: 0, End: len(b.clusters)}, text)
}

// replace is the only mutation path. r must already be validated.
//
// Inserted text can join the clusters around it (a combining mark after a
// base letter, a regional indicator after another). The affected lines are
// segmented again, and the recorded edit covers every cluster that changed,
// which may be wider than r.
func (b *Buffer) replace(r Range, text string) (removed string, changed bool) {
	text = grapheme.NormalizeNewlines(text)
	removed = grapheme.Join(b.clusters[r.Start:r.End])
	if removed == text {
		return removed, false
	}

	start, end, del, ins := b.resegment(r, text)
	if len(del) == 0 && len(ins) == 0 {
		return removed, false
	}

	line, cleanLine := b.lineIndexNoRepair(start)
	nlDel := countNewlines(del)
	nlIns := countNewlines(ins)

	out := make([]string, 0, len(b.clusters)-len(del)+len(ins))
	out = append(out, b.clusters[:start]...)
	out = append(out, ins...)
	out = append(out, b.clusters[end:]...)
	b.clusters = out

	before := b.revision
	b.revision++

	if nlDel == 0 && nlIns == 0 {
		b.lineRevs[line] = b.revision
	} else {
		count := len(b.lineRevs) - nlDel + nlIns
		revs := b.lineRevs[:line]
		for i := line; i < count; i++ {
			revs = append(revs, b.revision)
		}
		b.lineRevs = revs
	}
	if cleanLine+1 < b.clean {
		b.clean = cleanLine + 1
	}

	b.last = AppliedEdit{
		RevisionBefore: before,
		RevisionAfter:  b.revision,
		Line:           line,
		LineBreaks:     nlDel != 0 || nlIns != 0,
		RangeBefore:    Range{Start: start, End: end},
		RangeAfter:     Range{Start: start, End: start + len(ins)},
		InsertText:     grapheme.Join(ins),
		DeletedText:    grapheme.Join(del),
	}
	b.hasLast = true
	return removed, true
}

// resegment splits the lines touched by replacing r with text and returns
// the smallest cluster range [start, end) whose content changes, with the
// old and new clusters for it. Line breaks always end a cluster, so nothing
// outside the touched lines can change.
func (b *Buffer) resegment(r Range, text string) (start, end int, del, ins []string) {
	ls := r.Start
	for ls > 0 && b.clusters[ls-1] != "\n" {
		ls--
	}
	le := r.End
	for le < len(b.clusters) && b.clusters[le] != "\n" {
		le++
	}

	old := b.clusters[ls:le]
	neu := grapheme.Split(grapheme.Join(b.clusters[ls:r.Start]) + text + grapheme.Join(b.clusters[r.End:le]))

	p := 0
	for p < r.Start-ls && p < len(neu) && old[p] == neu[p] {
		p++
	}
	q := 0
	for q < le-r.End && q < len(old)-p && q < len(neu)-p && old[len(old)-1-q] == neu[len(neu)-1-q] {
		q++
	}
	return ls + p, le - q, old[p : len(old)-q], neu[p : len(neu)-q]
}
