package shaping

import "github.com/iw2rmb/quill/internal/grapheme"

type wrapUnit struct {
	width float64

	isWhitespace bool
	isPunct      bool
}

// wrapRows splits a line of clusters into visual rows. The returned rows
// cover [0, len(clusters)) without gaps; an empty line yields one empty row.
func wrapRows(clusters []string, adv []float64, kind WrapKind, width float64) []Row {
	if len(clusters) == 0 {
		return []Row{{}}
	}
	if width <= 0 || kind == WrapNone {
		return []Row{rowFromRange(adv, 0, len(clusters))}
	}

	units := make([]wrapUnit, len(clusters))
	for i, c := range clusters {
		units[i] = wrapUnit{
			width:        adv[i],
			isWhitespace: grapheme.IsSpace(c),
			isPunct:      grapheme.IsPunct(c),
		}
	}

	rows := make([]Row, 0, 1)
	for start := 0; start < len(units); {
		used := 0.0
		overflow := start
		for overflow < len(units) {
			w := units[overflow].width
			if overflow > start && used+w > width {
				break
			}
			used += w
			overflow++
		}

		end := overflow
		if kind == WrapWord && overflow < len(units) {
			if units[overflow].isWhitespace {
				// Whitespace at the break hangs past the edge.
				for end < len(units) && units[end].isWhitespace {
					end++
				}
			} else if br, ok := findWordBreak(units, start, overflow); ok {
				end = br
			} else {
				end = adjustBreakForLeadingPunct(units, start, overflow)
			}
		}
		if end <= start {
			end = start + 1
		}

		rows = append(rows, rowFromRange(adv, start, end))
		start = end
	}
	return rows
}

// findWordBreak returns the end of the last whitespace run in
// [start, overflow).
func findWordBreak(units []wrapUnit, start, overflow int) (int, bool) {
	lastBreak := -1
	for i := start; i < overflow; {
		if !units[i].isWhitespace {
			i++
			continue
		}
		j := i + 1
		for j < overflow && units[j].isWhitespace {
			j++
		}
		lastBreak = j
		i = j
	}
	if lastBreak <= start {
		return 0, false
	}
	return lastBreak, true
}

// adjustBreakForLeadingPunct keeps punctuation from starting a row when a
// word is force-broken right before it.
func adjustBreakForLeadingPunct(units []wrapUnit, start, overflow int) int {
	if overflow < len(units) && units[overflow].isPunct && overflow-1 > start {
		return overflow - 1
	}
	return overflow
}

func rowFromRange(adv []float64, start, end int) Row {
	w := 0.0
	for _, a := range adv[start:end] {
		w += a
	}
	return Row{Start: start, End: end, Width: w}
}
