package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunViewer shows content full screen in a scrollable viewport.
func RunViewer(ctx context.Context, title, content string) error {
	_, err := tea.NewProgram(newViewer(title, content), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

type viewer struct {
	title   string
	content string
	vp      viewport.Model
	ready   bool
}

func newViewer(title, content string) viewer {
	return viewer{title: title, content: content}
}

func (v viewer) Init() tea.Cmd { return nil }

func (v viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		h := max(1, x.Height-2)
		if !v.ready {
			v.vp = viewport.New(x.Width, h)
			v.ready = true
		} else {
			v.vp.Width, v.vp.Height = x.Width, h
		}
		v.vp.SetContent(v.content)
		return v, nil
	case tea.KeyMsg:
		switch x.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v viewer) View() string {
	if !v.ready {
		return "Loading…"
	}
	header := lipgloss.NewStyle().Bold(true).Render(v.title)
	footer := lipgloss.NewStyle().Faint(true).
		Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • q=exit", v.vp.ScrollPercent()*100))
	return header + "\n" + v.vp.View() + "\n" + footer
}
