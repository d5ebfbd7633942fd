package editor

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/shaping"
)

// SnapshotToken identifies the visual state a snapshot was built from. Equal
// tokens mean an identical render.
type SnapshotToken uint64

// SnapshotLine is one visible logical line.
type SnapshotLine struct {
	// Top is the line top relative to the viewport.
	Top  float64
	Line shaping.ShapedLine
	Runs []StyleRun
}

// Snapshot is an immutable render description of a session. All
// coordinates are relative to the viewport's top-left corner.
type Snapshot struct {
	Token    SnapshotToken
	Revision uint64

	Width  float64
	Height float64
	// ScrollX and ScrollY are the viewport origin in document space.
	ScrollX float64
	ScrollY float64
	// OriginX and OriginY place the text inside the viewport. Line tops
	// and rects already include them; glyph X coordinates do not.
	OriginX float64
	OriginY float64

	Lines []SnapshotLine
	// LineCount is the number of logical lines in the buffer.
	LineCount int

	Carets      []shaping.Rect
	Selections  []shaping.Rect
	Composition []shaping.Rect

	Primary      cursor.Selection
	CaretVisible bool
	Focused      bool
	ReadOnly     bool
	Composing    bool
	// Placeholder is set while the buffer is empty.
	Placeholder string
}

type snapshotSignature struct {
	revision     uint64
	selections   []cursor.Selection
	primary      int
	width        float64
	height       float64
	scrollX      float64
	scrollY      float64
	originX      float64
	originY      float64
	mode         Mode
	caretVisible bool
	focused      bool
	readOnly     bool
	state        State
	compStart    int
	compLen      int
	placeholder  string
}

func (s *Session) currentSnapshotSignature() snapshotSignature {
	sig := snapshotSignature{
		revision:     s.buf.Revision(),
		selections:   s.cursor.Selections(),
		primary:      s.cursor.PrimaryIndex(),
		width:        s.cfg.Width,
		height:       s.viewHeight(),
		scrollX:      s.scrollX,
		scrollY:      s.scrollY,
		mode:         s.cfg.Mode,
		caretVisible: s.CaretVisible(),
		focused:      s.focused,
		readOnly:     s.cfg.ReadOnly,
		state:        s.state,
	}
	sig.originX, sig.originY = s.Origin()
	if s.state == Composing {
		sig.compStart = s.comp.start
		sig.compLen = s.comp.n
	}
	if s.buf.Len() == 0 {
		sig.placeholder = s.cfg.Placeholder
	}
	return sig
}

func hashSnapshotSignature(sig snapshotSignature) SnapshotToken {
	h := fnv.New64a()
	writeU64 := func(v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		_, _ = h.Write(b[:])
	}
	writeI := func(v int) { writeU64(uint64(v)) }
	writeF := func(v float64) { writeU64(math.Float64bits(v)) }
	writeB := func(v bool) {
		if v {
			writeU64(1)
			return
		}
		writeU64(0)
	}
	writeS := func(v string) {
		writeU64(uint64(len(v)))
		_, _ = h.Write([]byte(v))
	}

	writeU64(sig.revision)
	writeI(len(sig.selections))
	for _, sel := range sig.selections {
		writeI(sel.Anchor)
		writeI(sel.Active)
	}
	writeI(sig.primary)
	writeF(sig.width)
	writeF(sig.height)
	writeF(sig.scrollX)
	writeF(sig.scrollY)
	writeF(sig.originX)
	writeF(sig.originY)
	writeI(int(sig.mode))
	writeB(sig.caretVisible)
	writeB(sig.focused)
	writeB(sig.readOnly)
	writeI(int(sig.state))
	writeI(sig.compStart)
	writeI(sig.compLen)
	writeS(sig.placeholder)

	tok := SnapshotToken(h.Sum64())
	if tok == 0 {
		return 1
	}
	return tok
}

// SnapshotToken returns the token RenderSnapshot would stamp now, without
// building the snapshot.
func (s *Session) SnapshotToken() SnapshotToken {
	return hashSnapshotSignature(s.currentSnapshotSignature())
}

// RenderSnapshot builds the render description for the current state.
func (s *Session) RenderSnapshot() Snapshot {
	sig := s.currentSnapshotSignature()
	snap := Snapshot{
		Token:        hashSnapshotSignature(sig),
		Revision:     sig.revision,
		LineCount:    s.buf.LineCount(),
		Width:        s.cfg.Width,
		Height:       sig.height,
		ScrollX:      s.scrollX,
		ScrollY:      s.scrollY,
		OriginX:      sig.originX,
		OriginY:      sig.originY,
		Primary:      s.cursor.Primary(),
		CaretVisible: sig.caretVisible,
		Focused:      s.focused,
		ReadOnly:     s.cfg.ReadOnly,
		Composing:    s.state == Composing,
		Placeholder:  sig.placeholder,
	}
	if s.cfg.Mode == ModeAutoHeight {
		snap.Height = s.cache.Height()
	}

	first, last := s.visibleLines(snap.Height)
	for i := first; i <= last; i++ {
		line, err := s.cache.Line(i)
		if err != nil {
			break
		}
		sl := SnapshotLine{Top: s.cache.Top(i) - s.scrollY + sig.originY, Line: line}
		if s.cfg.Styler != nil && s.cfg.Mask == 0 {
			sl.Runs = normalizeStyleRuns(s.cfg.Styler.StyleLine(i, s.buf.LineText(i)), line.Clusters)
		}
		snap.Lines = append(snap.Lines, sl)
	}

	snap.Carets = s.toViewport(s.cursor.CaretRects())
	snap.Selections = s.toViewport(s.cursor.SelectionRects())
	if span, ok := s.Composition(); ok {
		snap.Composition = s.toViewport(s.cursor.RangeRects(span))
	}
	return snap
}

// visibleLines returns the inclusive range of lines intersecting a
// viewport of the given height.
func (s *Session) visibleLines(height float64) (first, last int) {
	n := s.buf.LineCount()
	if height <= 0 || s.cfg.Mode == ModeAutoHeight {
		return 0, n - 1
	}
	first = s.cache.LineAtY(s.scrollY)
	last = first
	bottom := s.scrollY + height
	for last+1 < n && s.cache.Top(last+1) < bottom {
		last++
	}
	return first, last
}

func (s *Session) toViewport(rects []shaping.Rect) []shaping.Rect {
	ox, oy := s.Origin()
	for i := range rects {
		rects[i].X += ox - s.scrollX
		rects[i].Y += oy - s.scrollY
	}
	return rects
}
