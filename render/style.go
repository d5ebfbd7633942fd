package render

import "github.com/charmbracelet/lipgloss"

// Style controls how a snapshot is drawn.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text        lipgloss.Style
	Selection   lipgloss.Style
	Cursor      lipgloss.Style
	Composition lipgloss.Style
	Placeholder lipgloss.Style

	// Runs maps style run keys from the session's Styler to styles layered
	// over Text. Unknown keys render as Text.
	Runs map[string]lipgloss.Style
}

// DefaultStyle returns the default style for the default renderer.
func DefaultStyle() Style {
	return NewStyle(lipgloss.DefaultRenderer())
}

// NewStyle returns the default style bound to r, so the color profile
// follows r's output.
func NewStyle(r *lipgloss.Renderer) Style {
	gutter := r.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: r.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          r.NewStyle(),
		Selection:     r.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        r.NewStyle().Reverse(true),
		Composition:   r.NewStyle().Underline(true),
		Placeholder:   r.NewStyle().Foreground(lipgloss.Color("243")).Italic(true),
	}
}

// runStyle resolves the base style for a cell.
func (st Style) runStyle(key string) lipgloss.Style {
	if key != "" {
		if s, ok := st.Runs[key]; ok {
			return s.Inherit(st.Text)
		}
	}
	return st.Text
}
