package grapheme

import "testing"

const family = "\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466"

func TestSplitAndCount_MultiRuneGraphemes(t *testing.T) {
	text := "a" + "é" + family + "b"
	got := Split(text)
	if len(got) != 4 {
		t.Fatalf("split len=%d, want %d", len(got), 4)
	}
	if got[1] != "é" {
		t.Fatalf("split[1]=%q, want %q", got[1], "é")
	}
	if got[2] != family {
		t.Fatalf("split[2]=%q, want family emoji", got[2])
	}
	if c := Count(text); c != 4 {
		t.Fatalf("count=%d, want %d", c, 4)
	}
}

func TestSplit_CRLFIsOneCluster(t *testing.T) {
	if got := Split("a\r\nb"); len(got) != 3 {
		t.Fatalf("split len=%d, want 3", len(got))
	}
	if got, want := NormalizeNewlines("a\r\nb\rc"), "a\nb\nc"; got != want {
		t.Fatalf("normalize=%q, want %q", got, want)
	}
}

func TestSlice_GraphemeSafe(t *testing.T) {
	text := "a" + "é" + family + "b"
	if got, want := Slice(text, 1, 3), "é"+family; got != want {
		t.Fatalf("slice=%q, want %q", got, want)
	}
	if got := Slice(text, 5, 6); got != "" {
		t.Fatalf("slice past end=%q, want empty", got)
	}
}

func TestJoin_RoundTripsSplit(t *testing.T) {
	text := "héllo " + family
	if got := Join(Split(text)); got != text {
		t.Fatalf("join(split)=%q, want %q", got, text)
	}
}

func TestClassOf(t *testing.T) {
	cases := []struct {
		in   string
		want Class
	}{
		{"a", ClassWord},
		{"\t", ClassSpace},
		{" ", ClassSpace},
		{"\n", ClassNewline},
		{"!", ClassPunct},
		{"+", ClassPunct},
		{"é", ClassWord},
	}
	for _, tc := range cases {
		if got := ClassOf(tc.in); got != tc.want {
			t.Fatalf("ClassOf(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWidth_WideAndNarrow(t *testing.T) {
	if got := Width("a"); got != 1 {
		t.Fatalf("width(a)=%d, want 1", got)
	}
	if got := Width("世"); got != 2 {
		t.Fatalf("width(CJK)=%d, want 2", got)
	}
	if got := Width("\U0001F600"); got != 2 {
		t.Fatalf("width(emoji)=%d, want 2", got)
	}
}
