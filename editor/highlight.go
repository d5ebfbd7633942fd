package editor

import "sort"

// Styler supplies styled runs for a line. Keys are host-defined and carried
// unchanged into the snapshot.
//
// StyleLine must be deterministic and side-effect free; it is called on
// every snapshot for visible lines.
type Styler interface {
	StyleLine(line int, text string) []StyleRun
}

// StylerFunc adapts a function to the Styler interface.
type StylerFunc func(line int, text string) []StyleRun

func (f StylerFunc) StyleLine(line int, text string) []StyleRun { return f(line, text) }

// StyleRun styles clusters [Start, End) of a line.
type StyleRun struct {
	Start int
	End   int
	Key   string
}

// normalizeStyleRuns clamps runs to the line, drops empty ones and keeps
// the earliest of any overlapping runs.
func normalizeStyleRuns(runs []StyleRun, lineLen int) []StyleRun {
	if len(runs) == 0 {
		return nil
	}
	lineLen = max(lineLen, 0)

	out := make([]StyleRun, 0, len(runs))
	for _, r := range runs {
		start := clampInt(r.Start, 0, lineLen)
		end := clampInt(r.End, 0, lineLen)
		if end < start {
			start, end = end, start
		}
		if start == end {
			continue
		}
		out = append(out, StyleRun{Start: start, End: end, Key: r.Key})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})

	merged := make([]StyleRun, 0, len(out))
	for _, r := range out {
		if n := len(merged); n > 0 && r.Start < merged[n-1].End {
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
