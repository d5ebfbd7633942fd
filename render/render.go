// Package render draws editor snapshots as terminal text, one layout unit
// per cell. It expects sessions laid out by shaping.CellShaper.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/quill/editor"
	"github.com/iw2rmb/quill/internal/grapheme"
	"github.com/iw2rmb/quill/shaping"
)

// Options configures View.
type Options struct {
	Style        Style
	ShowLineNums bool
}

type cellFlag uint8

const (
	flagSelected cellFlag = 1 << iota
	flagComposed
	flagCaret
)

type cell struct {
	x     int
	width int
	text  string
	key   string
	flags cellFlag
}

type screenRow struct {
	cells []cell
	// line is the logical line starting on this row, or -1.
	line int
}

// View renders snap. The result has exactly the snapshot's height in rows,
// each padded to its width.
func View(snap editor.Snapshot, opts Options) string {
	st := opts.Style
	width, height := viewSize(snap)
	rows := make([]screenRow, height)
	for i := range rows {
		rows[i].line = -1
	}

	for _, sl := range snap.Lines {
		clusters := grapheme.Split(sl.Line.Text)
		for ri, r := range sl.Line.Rows {
			y := int(math.Floor(sl.Top + r.Y))
			if y < 0 || y >= height {
				continue
			}
			if ri == 0 {
				rows[y].line = sl.Line.Line
			}
			rows[y].cells = rowCells(sl, clusters, r, snap.OriginX-snap.ScrollX, width)
		}
	}

	markRects(rows, snap.Selections, flagSelected)
	markRects(rows, snap.Composition, flagComposed)
	if snap.CaretVisible && snap.Placeholder == "" {
		for _, c := range snap.Carets {
			markCaret(rows, c, width)
		}
	}

	active := -1
	if snap.Focused {
		active = primaryLine(snap)
	}
	digits := len(fmt.Sprint(max(snap.LineCount, 1)))

	out := make([]string, height)
	for y, row := range rows {
		var sb strings.Builder
		if opts.ShowLineNums {
			num := strings.Repeat(" ", digits)
			numStyle := st.LineNum
			if row.line >= 0 {
				num = fmt.Sprintf("%*d", digits, row.line+1)
				if row.line == active {
					numStyle = st.LineNumActive
				}
			}
			sb.WriteString(numStyle.Render(num))
			sb.WriteString(st.Gutter.Render(" "))
		}
		if y == placeholderRow(snap) && snap.Placeholder != "" {
			pad := min(width, max(0, int(math.Round(snap.OriginX))))
			if pad > 0 {
				sb.WriteString(st.Text.Render(strings.Repeat(" ", pad)))
			}
			sb.WriteString(renderPlaceholder(st, snap.Placeholder, width-pad, snap.CaretVisible))
		} else {
			sb.WriteString(renderCells(st, row.cells, width))
		}
		out[y] = sb.String()
	}
	return strings.Join(out, "\n")
}

func placeholderRow(snap editor.Snapshot) int {
	return int(math.Floor(snap.OriginY))
}

func viewSize(snap editor.Snapshot) (width, height int) {
	width = int(math.Ceil(snap.Width))
	if width <= 0 {
		for _, sl := range snap.Lines {
			width = max(width, int(math.Ceil(sl.Line.Width()))+1)
		}
		width = max(width, grapheme.Count(snap.Placeholder)+1)
	}
	height = int(math.Ceil(snap.Height))
	if height <= 0 {
		for _, sl := range snap.Lines {
			height = max(height, int(math.Ceil(sl.Top+sl.Line.Height)))
		}
	}
	return width, max(height, 1)
}

// rowCells places the clusters of r; shift moves line coordinates into the
// viewport.
func rowCells(sl editor.SnapshotLine, clusters []string, r shaping.Row, shift float64, width int) []cell {
	cells := make([]cell, 0, r.End-r.Start)
	for col := r.Start; col < r.End && col < len(clusters); col++ {
		rect, ok := sl.Line.ClusterRect(col)
		if !ok {
			continue
		}
		x := int(math.Round(rect.X + shift))
		w := int(math.Round(rect.W))
		if w <= 0 || x < 0 || x+w > width {
			continue
		}
		text := clusters[col]
		if text == "\t" || grapheme.Width(text) != w {
			text = strings.Repeat(" ", w)
		}
		cells = append(cells, cell{x: x, width: w, text: text, key: runKey(sl.Runs, col)})
	}
	return cells
}

func runKey(runs []editor.StyleRun, col int) string {
	for _, r := range runs {
		if col >= r.Start && col < r.End {
			return r.Key
		}
	}
	return ""
}

func markRects(rows []screenRow, rects []shaping.Rect, flag cellFlag) {
	for _, rect := range rects {
		y := int(math.Floor(rect.Y))
		if y < 0 || y >= len(rows) {
			continue
		}
		x0 := int(math.Round(rect.X))
		x1 := int(math.Round(rect.X + rect.W))
		cells := rows[y].cells
		for i := range cells {
			if cells[i].x >= x0 && cells[i].x < x1 {
				cells[i].flags |= flag
			}
		}
	}
}

// markCaret flags the cell under the caret, or adds a blank caret cell
// past the end of the row.
func markCaret(rows []screenRow, c shaping.Rect, width int) {
	y := int(math.Floor(c.Y))
	x := int(math.Round(c.X))
	if y < 0 || y >= len(rows) || x < 0 || x >= width {
		return
	}
	row := &rows[y]
	for i := range row.cells {
		if row.cells[i].x == x {
			row.cells[i].flags |= flagCaret
			return
		}
	}
	row.cells = append(row.cells, cell{x: x, width: 1, text: " ", flags: flagCaret})
	sort.SliceStable(row.cells, func(i, j int) bool { return row.cells[i].x < row.cells[j].x })
}

func primaryLine(snap editor.Snapshot) int {
	if len(snap.Carets) == 0 {
		return -1
	}
	y := snap.Carets[0].Y
	for _, sl := range snap.Lines {
		if y >= sl.Top && y < sl.Top+sl.Line.Height {
			return sl.Line.Line
		}
	}
	return -1
}

// renderCells writes cells left to right, grouping neighbours that share a
// style, and pads the row to width.
func renderCells(st Style, cells []cell, width int) string {
	var sb strings.Builder
	col := 0
	for i := 0; i < len(cells); {
		c := cells[i]
		if c.x > col {
			sb.WriteString(st.Text.Render(strings.Repeat(" ", c.x-col)))
			col = c.x
		}
		var text strings.Builder
		j := i
		for j < len(cells) && cells[j].x == col && cells[j].key == c.key && cells[j].flags == c.flags {
			text.WriteString(cells[j].text)
			col += cells[j].width
			j++
		}
		sb.WriteString(cellStyle(st, c).Render(text.String()))
		i = j
	}
	if col < width {
		sb.WriteString(st.Text.Render(strings.Repeat(" ", width-col)))
	}
	return sb.String()
}

func cellStyle(st Style, c cell) lipgloss.Style {
	base := st.runStyle(c.key)
	switch {
	case c.flags&flagCaret != 0:
		return st.Cursor.Inherit(base)
	case c.flags&flagComposed != 0 && c.flags&flagSelected != 0:
		return st.Composition.Inherit(st.Selection.Inherit(base))
	case c.flags&flagComposed != 0:
		return st.Composition.Inherit(base)
	case c.flags&flagSelected != 0:
		return st.Selection.Inherit(base)
	}
	return base
}

func renderPlaceholder(st Style, text string, width int, caret bool) string {
	var sb strings.Builder
	var rest strings.Builder
	col := 0
	for i, g := range grapheme.Split(text) {
		w := grapheme.Width(g)
		if col+w > width {
			break
		}
		if i == 0 && caret {
			sb.WriteString(st.Cursor.Inherit(st.Placeholder).Render(g))
		} else {
			rest.WriteString(g)
		}
		col += w
	}
	if rest.Len() > 0 {
		sb.WriteString(st.Placeholder.Render(rest.String()))
	}
	if col < width {
		sb.WriteString(st.Text.Render(strings.Repeat(" ", width-col)))
	}
	return sb.String()
}
