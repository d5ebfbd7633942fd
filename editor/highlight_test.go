package editor

import (
	"reflect"
	"testing"
)

func TestNormalizeStyleRuns(t *testing.T) {
	cases := []struct {
		name    string
		runs    []StyleRun
		lineLen int
		want    []StyleRun
	}{
		{name: "nil", runs: nil, lineLen: 5, want: nil},
		{
			name:    "clamp and drop empty",
			runs:    []StyleRun{{Start: -2, End: 2, Key: "a"}, {Start: 3, End: 3, Key: "empty"}, {Start: 4, End: 9, Key: "b"}},
			lineLen: 5,
			want:    []StyleRun{{Start: 0, End: 2, Key: "a"}, {Start: 4, End: 5, Key: "b"}},
		},
		{
			name:    "reversed bounds",
			runs:    []StyleRun{{Start: 3, End: 1, Key: "r"}},
			lineLen: 5,
			want:    []StyleRun{{Start: 1, End: 3, Key: "r"}},
		},
		{
			name:    "sorted and overlaps dropped",
			runs:    []StyleRun{{Start: 2, End: 4, Key: "late"}, {Start: 0, End: 3, Key: "early"}, {Start: 4, End: 5, Key: "tail"}},
			lineLen: 5,
			want:    []StyleRun{{Start: 0, End: 3, Key: "early"}, {Start: 4, End: 5, Key: "tail"}},
		},
		{
			name:    "outside line",
			runs:    []StyleRun{{Start: 7, End: 9, Key: "x"}},
			lineLen: 5,
			want:    []StyleRun{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeStyleRuns(tc.runs, tc.lineLen)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("runs=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestRenderSnapshot_StyleRunsPerLine(t *testing.T) {
	var seen []int
	styler := StylerFunc(func(line int, text string) []StyleRun {
		seen = append(seen, line)
		return []StyleRun{{Start: 0, End: len(text) + 10, Key: text}}
	})
	s := New(Config{Text: "ab\ncde", Width: 10, Height: 2, Styler: styler})
	snap := s.RenderSnapshot()
	if len(snap.Lines) != 2 {
		t.Fatalf("lines=%d, want 2", len(snap.Lines))
	}
	if got, want := snap.Lines[1].Runs, []StyleRun{{Start: 0, End: 3, Key: "cde"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("runs=%v, want %v", got, want)
	}
	if !reflect.DeepEqual(seen, []int{0, 1}) {
		t.Fatalf("styled lines=%v, want [0 1]", seen)
	}

	masked := New(Config{Text: "ab", Mask: '*', Width: 10, Height: 1, Styler: styler})
	if runs := masked.RenderSnapshot().Lines[0].Runs; runs != nil {
		t.Fatalf("masked runs=%v, want nil", runs)
	}
}
