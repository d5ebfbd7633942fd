package editor

import (
	"testing"
	"time"
)

func TestTick_BlinksWhileFocused(t *testing.T) {
	clk := newFakeClock()
	s := New(Config{Clock: clk.Now})
	start := clk.Now()
	s.Focus()
	if !s.CaretVisible() {
		t.Fatalf("caret hidden right after focus")
	}

	if s.Tick(start.Add(BlinkInterval - time.Millisecond)) {
		t.Fatalf("visibility changed before the interval elapsed")
	}
	if !s.Tick(start.Add(BlinkInterval)) {
		t.Fatalf("visibility did not change after one interval")
	}
	if s.CaretVisible() {
		t.Fatalf("caret visible in the off phase")
	}
	if !s.Tick(start.Add(2 * BlinkInterval)) {
		t.Fatalf("visibility did not change after two intervals")
	}
	if !s.CaretVisible() {
		t.Fatalf("caret hidden in the on phase")
	}
}

func TestTick_EditResetsBlink(t *testing.T) {
	clk := newFakeClock()
	s := New(Config{Clock: clk.Now})
	s.Focus()
	clk.Advance(BlinkInterval + 10*time.Millisecond)
	s.Tick(clk.Now())
	if s.CaretVisible() {
		t.Fatalf("caret visible in the off phase")
	}
	typeString(t, s, "a")
	if !s.CaretVisible() {
		t.Fatalf("typing did not reset the blink")
	}
	if s.Tick(clk.Now().Add(BlinkInterval / 2)) {
		t.Fatalf("visibility changed within the first phase after reset")
	}
}

func TestTick_BlurredSessionHidesCaret(t *testing.T) {
	clk := newFakeClock()
	s := New(Config{Clock: clk.Now})
	if s.CaretVisible() {
		t.Fatalf("unfocused caret visible")
	}
	if s.Tick(clk.Now().Add(BlinkInterval / 2)) {
		t.Fatalf("unfocused session reported a blink change")
	}
	typeString(t, s, "a")
	if s.Tick(clk.Now()) {
		t.Fatalf("edit made an unfocused caret blink")
	}

	s.Focus()
	s.Blur()
	if s.CaretVisible() {
		t.Fatalf("caret visible after blur")
	}
	if s.Tick(clk.Now()) {
		t.Fatalf("blur left a pending visibility change")
	}
	if s.Tick(clk.Now().Add(BlinkInterval)) {
		t.Fatalf("blurred caret blinked")
	}
}

func TestClickState_Register(t *testing.T) {
	var c clickState
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := []struct {
		at   time.Duration
		off  int
		want int
	}{
		{0, 4, 1},
		{200 * time.Millisecond, 4, 2},
		{400 * time.Millisecond, 4, 3},
		{500 * time.Millisecond, 4, 1},
		{600 * time.Millisecond, 5, 1},
		{1200 * time.Millisecond, 5, 1},
		{1700 * time.Millisecond, 5, 2},
	}
	for i, st := range steps {
		if got := c.register(t0.Add(st.at), st.off); got != st.want {
			t.Fatalf("step %d: count=%d, want %d", i, got, st.want)
		}
	}
}
