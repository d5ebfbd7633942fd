package editor

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/iw2rmb/quill/buffer"
	"github.com/iw2rmb/quill/cursor"
)

func TestApply_GroupsOpsIntoOneEntry(t *testing.T) {
	s := New(Config{Text: "hello"})
	err := s.Apply(
		Insert{At: 5, Text: " world"},
		Delete{Range: rng(0, 1)},
		Insert{At: 0, Text: "H"},
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	wantText(t, s, "Hello world")
	if undo, _ := s.HistoryLen(); undo != 1 {
		t.Fatalf("undo=%d, want 1", undo)
	}
	s.Undo()
	wantText(t, s, "hello")
}

func TestApply_RejectsOutOfRangeWithoutPartialApply(t *testing.T) {
	s := New(Config{Text: "abc"})
	setSel(t, s, sel(1, 2))
	err := s.Apply(Insert{At: 0, Text: "x"}, Delete{Range: rng(5, 6)})
	if !errors.Is(err, buffer.ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	wantText(t, s, "abc")
	wantSelections(t, s, sel(1, 2))
	if undo, _ := s.HistoryLen(); undo != 0 {
		t.Fatalf("undo=%d, want 0", undo)
	}

	if err := s.Apply(Insert{At: -1, Text: "x"}); !errors.Is(err, buffer.ErrOutOfBounds) {
		t.Fatalf("negative insert err=%v, want ErrOutOfBounds", err)
	}
}

func TestApply_InvalidOps(t *testing.T) {
	s := New(Config{Text: "abc"})
	if err := s.Apply(EditOp(nil)); !errors.Is(err, ErrInvalidOp) {
		t.Fatalf("nil op err=%v, want ErrInvalidOp", err)
	}
	if err := s.Apply(SetSelection{}); !errors.Is(err, cursor.ErrNoSelection) {
		t.Fatalf("empty selection err=%v, want ErrNoSelection", err)
	}
	if err := s.Apply(Compose{Text: "x"}); !errors.Is(err, ErrCompositionState) {
		t.Fatalf("compose err=%v, want ErrCompositionState", err)
	}
	wantText(t, s, "abc")
}

func TestApply_SelectionOnlyIsNotRecorded(t *testing.T) {
	s := New(Config{Text: "abc"})
	setSel(t, s, sel(0, 3))
	if undo, _ := s.HistoryLen(); undo != 0 {
		t.Fatalf("undo=%d, want 0", undo)
	}
	wantSelections(t, s, sel(0, 3))
}

func TestApply_NoOpEditIsNotRecorded(t *testing.T) {
	s := New(Config{Text: "abc"})
	rev := s.Revision()
	if err := s.Apply(Delete{Range: rng(1, 1)}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Revision() != rev {
		t.Fatalf("revision=%d, want %d", s.Revision(), rev)
	}
	if undo, _ := s.HistoryLen(); undo != 0 {
		t.Fatalf("undo=%d, want 0", undo)
	}
}

func TestApply_ReadOnly(t *testing.T) {
	s := New(Config{Text: "abc", ReadOnly: true})
	if err := s.Apply(Insert{At: 0, Text: "x"}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("insert err=%v, want ErrReadOnly", err)
	}
	if err := s.Apply(SetSelection{Selections: []cursor.Selection{cursor.Caret(2)}}); err != nil {
		t.Fatalf("selection in read-only session: %v", err)
	}
	if err := s.Handle(KeyEvent{Text: "x"}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("typing err=%v, want ErrReadOnly", err)
	}
	press(t, s, "right")
	wantSelections(t, s, cursor.Caret(3))
	wantText(t, s, "abc")
}

func TestReplaceSelection_MultiCursor(t *testing.T) {
	s := New(Config{Text: "one two one"})
	setSel(t, s, sel(0, 3), sel(8, 11))
	if err := s.Apply(ReplaceSelection{Text: "1"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	wantText(t, s, "1 two 1")
	wantSelections(t, s, cursor.Caret(1), cursor.Caret(7))
	if s.Cursor().PrimaryIndex() != 0 {
		t.Fatalf("primary=%d, want 0", s.Cursor().PrimaryIndex())
	}
}

func TestClipRanges_TrimsOverlaps(t *testing.T) {
	got := clipRanges([]buffer.Range{rng(0, 3), rng(0, 5), rng(4, 4)})
	want := []buffer.Range{rng(0, 3), rng(3, 5), rng(5, 5)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("clipRanges[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestKeepNewlines(t *testing.T) {
	cases := []struct {
		text string
		n    int
		want string
	}{
		{"a\nb\nc", 0, "a"},
		{"a\nb\nc", 1, "a\nb"},
		{"a\nb\nc", 5, "a\nb\nc"},
		{"abc", 0, "abc"},
		{"a\nb", -1, "a"},
	}
	for _, tc := range cases {
		if got := keepNewlines(tc.text, tc.n); got != tc.want {
			t.Fatalf("keepNewlines(%q, %d)=%q, want %q", tc.text, tc.n, got, tc.want)
		}
	}
}

func TestSelectionsNeverOverlapAfterEdits(t *testing.T) {
	prng := rand.New(rand.NewPCG(7, 11))
	s := New(Config{Text: "alpha beta\ngamma delta\nepsilon", Width: 8, Height: 3})
	texts := []string{"", "x", "yz", "\n", "long insert\nwith break"}

	randSel := func() cursor.Selection {
		n := s.Buffer().Len()
		return cursor.Selection{Anchor: prng.IntN(n + 1), Active: prng.IntN(n + 1)}
	}

	for step := 0; step < 300; step++ {
		n := s.Buffer().Len()
		var err error
		switch prng.IntN(6) {
		case 0:
			err = s.Apply(SetSelection{Selections: []cursor.Selection{randSel(), randSel(), randSel()}})
		case 1:
			err = s.Apply(Insert{At: prng.IntN(n + 1), Text: texts[prng.IntN(len(texts))]})
		case 2:
			a, b := prng.IntN(n+1), prng.IntN(n+1)
			err = s.Apply(Delete{Range: buffer.NormalizeRange(buffer.Range{Start: a, End: b})})
		case 3:
			err = s.Apply(ReplaceSelection{Text: texts[prng.IntN(len(texts))]})
		case 4:
			s.Undo()
		case 5:
			s.Redo()
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		sels := s.Cursor().Selections()
		n = s.Buffer().Len()
		for i, sel := range sels {
			if sel.Start() < 0 || sel.End() > n {
				t.Fatalf("step %d: selection %v outside [0, %d]", step, sel, n)
			}
			if i > 0 {
				prev := sels[i-1]
				if prev.Start() > sel.Start() || prev.End() > sel.Start() || (prev.Start() == sel.Start() && (prev.IsCaret() || sel.IsCaret())) {
					t.Fatalf("step %d: selections %v and %v overlap", step, prev, sel)
				}
			}
		}
	}
}

func TestScenario_InsertSelectDelete(t *testing.T) {
	s := New(Config{})
	if err := s.Apply(Insert{At: 0, Text: "hello"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := s.Revision(); got != 1 {
		t.Fatalf("revision=%d, want 1", got)
	}
	setSel(t, s, sel(1, 4))
	press(t, s, "backspace")
	wantText(t, s, "ho")
	wantSelections(t, s, cursor.Caret(1))
}
