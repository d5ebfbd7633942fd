package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/editor"
)

var t0 = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testConfig(text string) editor.Config {
	return editor.Config{
		Text:   text,
		Width:  10,
		Height: 2,
		Clock:  func() time.Time { return t0 },
	}
}

func mustSession(t *testing.T, r *Registry, id SessionID) *editor.Session {
	t.Helper()
	s, err := r.Session(id)
	require.NoError(t, err)
	return s
}

func press(x, y float64) editor.PointerEvent {
	return editor.PointerEvent{Kind: editor.PointerPress, Button: editor.ButtonLeft, X: x, Y: y, Time: t0}
}

func TestCreateDestroy(t *testing.T) {
	r := New()
	a := r.Create(testConfig("a"))
	b := r.Create(testConfig("b"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, []SessionID{a, b}, r.IDs())
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Destroy(a))
	assert.Equal(t, []SessionID{b}, r.IDs())
	assert.ErrorIs(t, r.Destroy(a), ErrInvalidSession)

	_, err := r.Session(a)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = r.RenderSnapshot(a)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, r.Focus(a), ErrInvalidSession)
	assert.ErrorIs(t, r.SetRegion(a, Rect{W: 1, H: 1}), ErrInvalidSession)
	_, _, err = r.Region(a)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, r.Destroy(0), ErrInvalidSession)
}

func TestFocus_AtMostOneSession(t *testing.T) {
	r := New()
	a := r.Create(testConfig(""))
	b := r.Create(testConfig(""))

	_, ok := r.Focused()
	assert.False(t, ok)

	require.NoError(t, r.Focus(a))
	require.NoError(t, r.Focus(b))
	got, ok := r.Focused()
	require.True(t, ok)
	assert.Equal(t, b, got)
	assert.False(t, mustSession(t, r, a).Focused())
	assert.True(t, mustSession(t, r, b).Focused())

	r.Blur()
	_, ok = r.Focused()
	assert.False(t, ok)
	assert.False(t, mustSession(t, r, b).Focused())
}

func TestFocus_RepairsSessionsFocusedDirectly(t *testing.T) {
	r := New()
	a := r.Create(testConfig(""))
	b := r.Create(testConfig(""))
	sa, sb := mustSession(t, r, a), mustSession(t, r, b)

	require.NoError(t, r.Focus(a))
	sb.Focus()
	require.NoError(t, r.Focus(a))
	assert.True(t, sa.Focused())
	assert.False(t, sb.Focused())

	// Blurring the registry-focused session behind its back is repaired on
	// the next Focus of the same id.
	sa.Blur()
	require.NoError(t, r.Focus(a))
	assert.True(t, sa.Focused())

	sb.Focus()
	r.Blur()
	assert.False(t, sa.Focused())
	assert.False(t, sb.Focused())
}

func TestDestroyFocusedClearsFocus(t *testing.T) {
	r := New()
	a := r.Create(testConfig(""))
	require.NoError(t, r.Focus(a))
	require.NoError(t, r.Destroy(a))

	_, ok := r.Focused()
	assert.False(t, ok)
	assert.ErrorIs(t, r.Dispatch(editor.KeyEvent{Text: "x"}), ErrNoFocus)
}

func TestDispatch_KeysGoToFocusedSessionOnly(t *testing.T) {
	r := New()
	a := r.Create(testConfig(""))
	b := r.Create(testConfig(""))

	assert.ErrorIs(t, r.Dispatch(editor.KeyEvent{Text: "x"}), ErrNoFocus)

	require.NoError(t, r.Focus(a))
	require.NoError(t, r.Dispatch(editor.KeyEvent{Text: "x"}))
	require.NoError(t, r.Dispatch(editor.ClipboardEvent{Kind: editor.ClipboardPaste, Text: "y"}))
	require.NoError(t, r.Focus(b))
	require.NoError(t, r.Dispatch(editor.KeyEvent{Text: "z"}))

	assert.Equal(t, "xy", mustSession(t, r, a).Text())
	assert.Equal(t, "z", mustSession(t, r, b).Text())
}

func TestSessionsAreIsolated(t *testing.T) {
	r := New()
	a := r.Create(testConfig("shared"))
	b := r.Create(testConfig("shared"))
	sa, sb := mustSession(t, r, a), mustSession(t, r, b)

	require.NoError(t, r.Focus(a))
	require.NoError(t, r.Dispatch(editor.KeyEvent{Name: "a", Alt: true}))
	require.NoError(t, r.Dispatch(editor.KeyEvent{Name: "backspace"}))
	sa.Undo()
	sa.Redo()

	assert.Equal(t, "", sa.Text())
	assert.Equal(t, "shared", sb.Text())
	assert.Equal(t, uint64(0), sb.Revision())
	assert.Equal(t, cursor.Caret(0), sb.Cursor().Primary())
	assert.False(t, sb.Undo())
}

func TestDispatch_PressHitTestsAndTranslates(t *testing.T) {
	r := New()
	a := r.Create(testConfig("hello"))
	b := r.Create(testConfig("world"))
	require.NoError(t, r.SetRegion(a, Rect{X: 0, Y: 0, W: 10, H: 2}))
	require.NoError(t, r.SetRegion(b, Rect{X: 20, Y: 5, W: 10, H: 2}))

	require.NoError(t, r.Dispatch(press(23, 5)))
	got, ok := r.Focused()
	require.True(t, ok)
	assert.Equal(t, b, got)
	assert.Equal(t, cursor.Caret(3), mustSession(t, r, b).Cursor().Primary())

	require.NoError(t, r.Dispatch(press(1, 0)))
	got, _ = r.Focused()
	assert.Equal(t, a, got)
	assert.Equal(t, cursor.Caret(1), mustSession(t, r, a).Cursor().Primary())
}

func TestDispatch_MissClearsFocus(t *testing.T) {
	r := New()
	a := r.Create(testConfig("hello"))
	require.NoError(t, r.SetRegion(a, Rect{W: 10, H: 2}))
	require.NoError(t, r.Focus(a))

	require.NoError(t, r.Dispatch(press(50, 50)))
	_, ok := r.Focused()
	assert.False(t, ok)
}

func TestDispatch_LastCreatedIsOnTop(t *testing.T) {
	r := New()
	a := r.Create(testConfig("below"))
	b := r.Create(testConfig("above"))
	require.NoError(t, r.SetRegion(a, Rect{W: 10, H: 2}))
	require.NoError(t, r.SetRegion(b, Rect{X: 5, W: 10, H: 2}))

	require.NoError(t, r.Dispatch(press(6, 0)))
	got, _ := r.Focused()
	assert.Equal(t, b, got)
	assert.Equal(t, cursor.Caret(1), mustSession(t, r, b).Cursor().Primary())
}

func TestDispatch_DragIsCapturedUntilRelease(t *testing.T) {
	r := New()
	a := r.Create(testConfig("hello"))
	b := r.Create(testConfig("world"))
	require.NoError(t, r.SetRegion(a, Rect{W: 10, H: 2}))
	require.NoError(t, r.SetRegion(b, Rect{Y: 4, W: 10, H: 2}))
	sa, sb := mustSession(t, r, a), mustSession(t, r, b)

	require.NoError(t, r.Dispatch(press(1, 0)))
	// The pointer leaves a's region and crosses b; a keeps the drag.
	require.NoError(t, r.Dispatch(editor.PointerEvent{Kind: editor.PointerMove, Button: editor.ButtonLeft, X: 4, Y: 0.5}))
	require.NoError(t, r.Dispatch(editor.PointerEvent{Kind: editor.PointerMove, Button: editor.ButtonLeft, X: 9, Y: 4}))
	require.NoError(t, r.Dispatch(editor.PointerEvent{Kind: editor.PointerRelease, Button: editor.ButtonLeft, X: 9, Y: 4}))

	assert.Equal(t, cursor.Selection{Anchor: 1, Active: 5}, sa.Cursor().Primary())
	assert.Equal(t, cursor.Caret(0), sb.Cursor().Primary())

	// Moves after release reach nobody.
	require.NoError(t, r.Dispatch(editor.PointerEvent{Kind: editor.PointerMove, Button: editor.ButtonLeft, X: 0, Y: 0}))
	assert.Equal(t, cursor.Selection{Anchor: 1, Active: 5}, sa.Cursor().Primary())
}

func TestTick_ReportsBlinkChanges(t *testing.T) {
	r := New()
	a := r.Create(testConfig(""))
	r.Create(testConfig(""))
	require.NoError(t, r.Focus(a))

	assert.False(t, r.Tick(t0.Add(editor.BlinkInterval/2)))
	assert.True(t, r.Tick(t0.Add(editor.BlinkInterval)))
	assert.False(t, r.Tick(t0.Add(editor.BlinkInterval)))
	assert.True(t, r.Tick(t0.Add(2*editor.BlinkInterval)))
}
