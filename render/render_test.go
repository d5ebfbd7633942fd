package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/quill/cursor"
	"github.com/iw2rmb/quill/editor"
)

func markerStyle() Style {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	wrap := func(open, close string) func(string) string {
		return func(s string) string { return open + s + close }
	}
	st := NewStyle(r)
	st.Cursor = r.NewStyle().Transform(wrap("[", "]"))
	st.Selection = r.NewStyle().Transform(wrap("{", "}"))
	st.Composition = r.NewStyle().Transform(wrap("_", "_"))
	st.Runs = map[string]lipgloss.Style{"kw": r.NewStyle().Transform(wrap("<", ">"))}
	return st
}

func view(s *editor.Session, lineNums bool) string {
	return View(s.RenderSnapshot(), Options{Style: markerStyle(), ShowLineNums: lineNums})
}

func TestView_CaretAndPadding(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab\ncd", Width: 4, Height: 3})
	s.Focus()
	assert.Equal(t, "[a]b  \ncd  \n    ", view(s, false))
}

func TestView_SelectionAcrossLines(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab\ncd", Width: 4, Height: 2})
	s.Focus()
	require.NoError(t, s.Apply(editor.SetSelection{Selections: []cursor.Selection{{Anchor: 1, Active: 4}}}))
	assert.Equal(t, "a{b}  \n{c}[d]  ", view(s, false))
}

func TestView_CaretAtLineEnd(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab", Width: 4, Height: 1})
	s.Focus()
	require.NoError(t, s.Handle(editor.KeyEvent{Name: "end"}))
	assert.Equal(t, "ab[ ] ", view(s, false))
}

func TestView_BlurredHidesCaret(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab", Width: 3, Height: 1})
	assert.Equal(t, "ab ", view(s, false))
}

func TestView_Placeholder(t *testing.T) {
	s := editor.New(editor.Config{Placeholder: "Type", Width: 6, Height: 1})
	s.Focus()
	assert.Equal(t, "[T]ype  ", view(s, false))
	s.Blur()
	assert.Equal(t, "Type  ", view(s, false))
}

func TestView_LineNumbers(t *testing.T) {
	text := strings.TrimSuffix(strings.Repeat("x\n", 10), "\n")
	s := editor.New(editor.Config{Text: text, Width: 2, Height: 10})
	lines := strings.Split(view(s, true), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, " 1 x ", lines[0])
	assert.Equal(t, "10 x ", lines[9])
}

func TestView_WrappedRowsShareGutter(t *testing.T) {
	s := editor.New(editor.Config{Text: "hello world", Width: 6, Height: 2})
	assert.Equal(t, "1 hello \n  world ", view(s, true))
}

func TestView_InfiniteLineScrolls(t *testing.T) {
	s := editor.New(editor.Config{Mode: editor.ModeInfiniteLine, Text: "0123456789", Width: 5, Height: 1})
	s.Focus()
	require.NoError(t, s.Handle(editor.KeyEvent{Name: "end"}))
	assert.Equal(t, "56789", view(s, false))
}

func TestView_StyleRuns(t *testing.T) {
	styler := editor.StylerFunc(func(int, string) []editor.StyleRun {
		return []editor.StyleRun{{Start: 0, End: 2, Key: "kw"}, {Start: 2, End: 3, Key: "unknown"}}
	})
	s := editor.New(editor.Config{Text: "abcd", Width: 5, Height: 1, Styler: styler})
	assert.Equal(t, "<ab>cd ", view(s, false))
}

func TestView_Composition(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab", Width: 5, Height: 1})
	s.Focus()
	require.NoError(t, s.Apply(editor.SetSelection{Selections: []cursor.Selection{cursor.Caret(1)}}))
	require.NoError(t, s.Handle(editor.CompositionEvent{Kind: editor.CompositionStart, Text: "xy"}))
	assert.Equal(t, "a_xy_[b] ", view(s, false))
}

func TestView_MaskedText(t *testing.T) {
	s := editor.New(editor.Config{Text: "pw", Mask: '*', Width: 3, Height: 1})
	assert.Equal(t, "** ", view(s, false))
}

func TestView_CenteredText(t *testing.T) {
	s := editor.New(editor.Config{Text: "ab", Width: 6, Height: 3, Position: editor.Position{Align: editor.AlignCenter}})
	s.Focus()
	assert.Equal(t, "      \n  [a]b  \n      ", view(s, false))
}
