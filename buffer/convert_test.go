package buffer

import "testing"

func TestPosOf(t *testing.T) {
	b := New("ab\ncd")

	cases := []struct {
		name string
		off  int
		mode ClampMode
		want Pos
		ok   bool
	}{
		{name: "bof", off: 0, mode: OffsetError, want: Pos{Row: 0, Col: 0}, ok: true},
		{name: "line-0-end", off: 2, mode: OffsetError, want: Pos{Row: 0, Col: 2}, ok: true},
		{name: "after-newline", off: 3, mode: OffsetError, want: Pos{Row: 1, Col: 0}, ok: true},
		{name: "eof", off: 5, mode: OffsetError, want: Pos{Row: 1, Col: 2}, ok: true},
		{name: "below-error", off: -1, mode: OffsetError, ok: false},
		{name: "above-error", off: 6, mode: OffsetError, ok: false},
		{name: "below-clamp", off: -1, mode: OffsetClamp, want: Pos{Row: 0, Col: 0}, ok: true},
		{name: "above-clamp", off: 6, mode: OffsetClamp, want: Pos{Row: 1, Col: 2}, ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := b.PosOf(tc.off, tc.mode)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("pos=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestOffsetOf(t *testing.T) {
	b := New("ab\ncd")
	if got, ok := b.OffsetOf(Pos{Row: 1, Col: 1}, OffsetError); !ok || got != 4 {
		t.Fatalf("OffsetOf(1,1)=%d,%v, want 4,true", got, ok)
	}
	if _, ok := b.OffsetOf(Pos{Row: 0, Col: 3}, OffsetError); ok {
		t.Fatalf("col past row end should fail")
	}
	if got, ok := b.OffsetOf(Pos{Row: 0, Col: 3}, OffsetClamp); !ok || got != 2 {
		t.Fatalf("clamped OffsetOf=%d,%v, want 2,true", got, ok)
	}
	if got, ok := b.OffsetOf(Pos{Row: 5, Col: 0}, OffsetClamp); !ok || got != 3 {
		t.Fatalf("clamped row OffsetOf=%d,%v, want 3,true", got, ok)
	}
}

func TestByteOffsets(t *testing.T) {
	b := New("\u00e9x\ny")
	if got, ok := b.ByteOffset(1, OffsetError); !ok || got != 2 {
		t.Fatalf("ByteOffset(1)=%d,%v, want 2,true", got, ok)
	}
	if got, ok := b.OffsetFromByte(2, OffsetError); !ok || got != 1 {
		t.Fatalf("OffsetFromByte(2)=%d,%v, want 1,true", got, ok)
	}
	if _, ok := b.OffsetFromByte(1, OffsetError); ok {
		t.Fatalf("byte inside cluster should fail")
	}
	if got, ok := b.OffsetFromByte(1, OffsetClamp); !ok || got != 0 {
		t.Fatalf("clamped interior byte=%d,%v, want 0,true", got, ok)
	}
	if got, ok := b.OffsetFromByte(5, OffsetError); !ok || got != 4 {
		t.Fatalf("OffsetFromByte(eof)=%d,%v, want 4,true", got, ok)
	}
}
