package cursor

import (
	"sort"

	"github.com/iw2rmb/quill/buffer"
)

// Selection is a range with a fixed Anchor and a moving Active end.
// Anchor == Active is a caret.
type Selection struct {
	Anchor buffer.Offset
	Active buffer.Offset
}

// Caret returns a collapsed selection at off.
func Caret(off buffer.Offset) Selection {
	return Selection{Anchor: off, Active: off}
}

func (s Selection) IsCaret() bool { return s.Anchor == s.Active }

func (s Selection) Start() buffer.Offset { return min(s.Anchor, s.Active) }

func (s Selection) End() buffer.Offset { return max(s.Anchor, s.Active) }

// Range returns the selection as a normalized range.
func (s Selection) Range() buffer.Range {
	return buffer.Range{Start: s.Start(), End: s.End()}
}

// Backward reports whether Active precedes Anchor.
func (s Selection) Backward() bool { return s.Active < s.Anchor }

func (s Selection) clamp(n int) Selection {
	return Selection{
		Anchor: buffer.ClampOffset(s.Anchor, n),
		Active: buffer.ClampOffset(s.Active, n),
	}
}

func overlaps(a, b Selection) bool {
	if a.Start() == b.Start() && (a.IsCaret() || b.IsCaret()) {
		return true
	}
	return a.End() > b.Start() && b.End() > a.Start()
}

// merge widens into to cover from, keeping into's direction. A caret takes
// the direction of what it merges with.
func merge(into, from Selection) Selection {
	start := min(into.Start(), from.Start())
	end := max(into.End(), from.End())
	backward := into.Backward()
	if into.IsCaret() {
		backward = from.Backward()
	}
	if backward {
		return Selection{Anchor: end, Active: start}
	}
	return Selection{Anchor: start, Active: end}
}

type tagged struct {
	sel     Selection
	primary bool
	goal    float64
}

// normalize sorts by position, merges overlaps and returns the primary index.
func normalize(items []tagged) ([]tagged, int) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sel.Start() < items[j].sel.Start()
	})
	out := items[:0]
	for _, it := range items {
		if n := len(out); n > 0 && overlaps(out[n-1].sel, it.sel) {
			prev := &out[n-1]
			if it.primary {
				prev.sel = merge(it.sel, prev.sel)
				prev.goal = it.goal
			} else {
				prev.sel = merge(prev.sel, it.sel)
			}
			prev.primary = prev.primary || it.primary
			continue
		}
		out = append(out, it)
	}
	primary := 0
	for i, it := range out {
		if it.primary {
			primary = i
			break
		}
	}
	return out, primary
}
