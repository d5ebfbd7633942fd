package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/config"
	"github.com/iw2rmb/quill/editor"
	"github.com/iw2rmb/quill/registry"
	"github.com/iw2rmb/quill/render"
)

const (
	// titleRows is the number of rows above each pane's text.
	titleRows = 1
	// statusRows is the number of rows below the panes.
	statusRows = 1
	separator  = "│"
)

var (
	titleStyle        = lipgloss.NewStyle().Faint(true)
	focusedTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusStyle       = lipgloss.NewStyle().Faint(true)
	separatorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type tickMsg time.Time

type pane struct {
	id   registry.SessionID
	name string
}

type model struct {
	reg   *registry.Registry
	panes []pane
	style render.Style

	width, height int
	status        string
	help          helpPanel
}

// newModel creates one session per preset in file, or two sessions from
// the defaults when the file has fewer than two presets.
func newModel(file *config.File, text string, clip editor.Clipboard) (*model, error) {
	m := &model{reg: registry.New(), style: render.DefaultStyle(), help: newHelpPanel()}

	names := make([]string, 0, len(file.Sessions))
	for _, p := range file.Sessions {
		names = append(names, p.Name)
	}
	for len(names) < 2 {
		names = append(names, "")
	}

	for i, name := range names {
		cfg, err := file.EditorConfig(name)
		if err != nil {
			return nil, err
		}
		if i == 0 && text != "" {
			cfg.Text = text
		}
		if cfg.Placeholder == "" {
			cfg.Placeholder = "Type here"
		}
		cfg.Clipboard = clip
		title := name
		if title == "" {
			title = fmt.Sprintf("session %d", i+1)
		}
		cfg.OnDiagnostic = func(d editor.Diagnostic) {
			quill.Logger().Warn("diagnostic", FieldSession, title, FieldOp, d.Op, FieldError, d.Err)
			m.help.addDiagnostic(fmt.Sprintf("%s: %s: %v", title, d.Op, d.Err))
		}
		id := m.reg.Create(cfg)
		m.panes = append(m.panes, pane{id: id, name: title})
		quill.Logger().Debug("session created", FieldSession, title, FieldPreset, name)
	}
	if err := m.reg.Focus(m.panes[0].id); err != nil {
		return nil, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(editor.BlinkInterval/2, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.resize(m.width, m.height)
	case tickMsg:
		m.reg.Tick(time.Time(msg))
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.help.open {
			return m, m.help.update(msg)
		}
		switch msg.String() {
		case helpKey:
			m.help.toggle(editor.DefaultKeyMap(), m.width, m.height)
			return m, nil
		case "tab":
			m.cycleFocus(1)
			m.layout()
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			m.layout()
			return m, nil
		}
		m.dispatch(msg)
	case tea.MouseMsg:
		if m.help.open {
			return m, m.help.update(msg)
		}
		if dy, ok := editor.IsWheel(msg); ok {
			m.scroll(dy)
			return m, nil
		}
		m.dispatch(msg)
	}
	m.layout()
	return m, nil
}

func (m *model) dispatch(msg tea.Msg) {
	ev, ok := editor.EventFromTea(msg)
	if !ok {
		return
	}
	err := m.reg.Dispatch(ev)
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, registry.ErrNoFocus):
		m.status = "no session focused: click one or press tab"
	default:
		m.status = err.Error()
	}
}

func (m *model) cycleFocus(step int) {
	if len(m.panes) == 0 {
		return
	}
	next := 0
	if cur, ok := m.reg.Focused(); ok {
		for i, p := range m.panes {
			if p.id == cur {
				next = (i + step + len(m.panes)) % len(m.panes)
			}
		}
	}
	_ = m.reg.Focus(m.panes[next].id)
}

func (m *model) scroll(dy int) {
	id, ok := m.reg.Focused()
	if !ok {
		return
	}
	s, err := m.reg.Session(id)
	if err != nil {
		return
	}
	x, y := s.ScrollOffset()
	s.ScrollTo(x, y+float64(dy))
}

func (m *model) paneWidth() int {
	n := len(m.panes)
	return max(1, (m.width-(n-1)*lipgloss.Width(separator))/n)
}

// layout sizes every session to its pane and registers the text area as
// its pointer region. The line-number gutter sits left of the region.
func (m *model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	pw := m.paneWidth()
	ph := max(1, m.height-titleRows-statusRows)
	for i, p := range m.panes {
		s, err := m.reg.Session(p.id)
		if err != nil {
			continue
		}
		gutter := gutterWidth(s.Buffer().LineCount())
		w := max(1, pw-gutter)
		s.SetSize(float64(w), float64(ph))
		x := i*(pw+lipgloss.Width(separator)) + gutter
		_ = m.reg.SetRegion(p.id, registry.Rect{X: float64(x), Y: titleRows, W: float64(w), H: float64(ph)})
	}
}

// gutterWidth matches the line-number column drawn by render.View.
func gutterWidth(lines int) int {
	return len(fmt.Sprint(max(lines, 1))) + 1
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	pw := m.paneWidth()
	focused, _ := m.reg.Focused()

	cols := make([]string, 0, 2*len(m.panes))
	for i, p := range m.panes {
		snap, err := m.reg.RenderSnapshot(p.id)
		if err != nil {
			continue
		}
		ts := titleStyle
		title := p.name
		if p.id == focused {
			ts = focusedTitleStyle
			title += " *"
		}
		body := render.View(snap, render.Options{Style: m.style, ShowLineNums: true})
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, ts.Width(pw).MaxWidth(pw).Render(title), body))
		if i < len(m.panes)-1 {
			rows := max(1, m.height-statusRows)
			cols = append(cols, separatorStyle.Render(strings.TrimSuffix(strings.Repeat(separator+"\n", rows), "\n")))
		}
	}

	status := m.status
	if status == "" {
		status = "tab: switch session • f1: help • ctrl+c: quit"
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		statusStyle.MaxWidth(m.width).Render(status),
	)
	if m.help.open {
		return m.help.view(out)
	}
	return out
}
