package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/quill/editor"
)

const (
	helpKey = "f1"
	// maxDiagnostics bounds the diagnostics kept for the help panel.
	maxDiagnostics = 50
)

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
	helpKeyStyle     = lipgloss.NewStyle().Bold(true)
	helpHeadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// helpPanel is a scrollable popup listing key bindings and recent
// diagnostics. It is drawn over the panes while open.
type helpPanel struct {
	open  bool
	vp    viewport.Model
	diags []string
}

func newHelpPanel() helpPanel {
	return helpPanel{vp: viewport.New(0, 0)}
}

func (h *helpPanel) toggle(km editor.KeyMap, width, height int) {
	h.open = !h.open
	if h.open {
		h.resize(width, height)
		h.vp.SetContent(helpContent(km, h.diags))
		h.vp.GotoTop()
	}
}

// resize fits the panel inside a screen of width x height, leaving room
// for the border.
func (h *helpPanel) resize(width, height int) {
	h.vp.Width = max(1, min(60, width-4)-helpBoxStyle.GetHorizontalFrameSize())
	h.vp.Height = max(1, height-2-helpBoxStyle.GetVerticalFrameSize())
}

func (h *helpPanel) addDiagnostic(line string) {
	h.diags = append(h.diags, line)
	if len(h.diags) > maxDiagnostics {
		h.diags = h.diags[len(h.diags)-maxDiagnostics:]
	}
}

// update routes input to the panel while it is open. esc and the help key
// close it; everything else scrolls.
func (h *helpPanel) update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", helpKey:
			h.open = false
			return nil
		}
	}
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return cmd
}

// view draws the panel centred over base.
func (h *helpPanel) view(base string) string {
	return overlay.Composite(helpBoxStyle.Render(h.vp.View()), base, overlay.Center, overlay.Center, 0, 0)
}

func helpContent(km editor.KeyMap, diags []string) string {
	bindings := []key.Binding{
		km.WordLeft, km.WordRight, km.Home, km.End, km.DocStart, km.DocEnd,
		km.SelectAll, km.ShiftLeft, km.ShiftRight,
		km.Backspace, km.Delete, km.DeleteWordLeft, km.DeleteWordRight, km.Enter,
		km.Undo, km.Redo, km.Copy, km.Cut, km.Paste, km.Escape,
	}
	var sb strings.Builder
	sb.WriteString(helpHeadingStyle.Render("Diagnostics"))
	if len(diags) == 0 {
		sb.WriteString("\nnone")
	}
	for _, d := range diags {
		sb.WriteString("\n")
		sb.WriteString(d)
	}

	sb.WriteString("\n\n")
	sb.WriteString(helpHeadingStyle.Render("Keys"))
	for _, b := range bindings {
		hb := b.Help()
		fmt.Fprintf(&sb, "\n%s  %s", helpKeyStyle.Render(fmt.Sprintf("%-16s", hb.Key)), hb.Desc)
	}
	fmt.Fprintf(&sb, "\n%s  %s", helpKeyStyle.Render(fmt.Sprintf("%-16s", "tab")), "next session")
	fmt.Fprintf(&sb, "\n%s  %s", helpKeyStyle.Render(fmt.Sprintf("%-16s", helpKey+"/esc")), "close help")
	return sb.String()
}
