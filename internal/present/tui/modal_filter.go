package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// filterModal edits the title query and category of the list view.
type filterModal struct {
	query    textinput.Model
	category textinput.Model
	width    int
	height   int
	padX     int
	padY     int
	box      lipglossv2.Style
	focus    int
}

func newFilterModal(query, category string, termW, termH int) *filterModal {
	m := &filterModal{padX: 2, padY: 1}
	m.query = newFilterInput("title: ", "fuzzy match on title or slug", query)
	m.category = newFilterInput("category: ", "exact category", category)
	m.setFocus(0)
	m.resizeForTerm(termW, termH)
	return m
}

func newFilterInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	w = min(max(w, 42), 90)
	h := 9
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(12, w-2-m.padX*2)
	m.query.Width = max(12, innerW-lipgloss.Width(m.query.Prompt))
	m.category.Width = max(12, innerW-lipgloss.Width(m.category.Prompt))
}

func (m *filterModal) setFocus(idx int) {
	m.focus = idx
	if idx == 0 {
		m.query.Focus()
		m.category.Blur()
		return
	}
	m.category.Focus()
	m.query.Blur()
}

func (m *filterModal) values() (string, string) {
	return strings.TrimSpace(m.query.Value()), strings.TrimSpace(m.category.Value())
}

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "tab", "down", "shift+tab", "up":
			m.setFocus(1 - m.focus)
			return m, nil
		case "ctrl+x":
			m.query.SetValue("")
			m.category.SetValue("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.query, cmd = m.query.Update(msg)
	} else {
		m.category, cmd = m.category.Update(msg)
	}
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filter posts")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • tab=next • ctrl+x=clear")
	body := strings.Join([]string{
		header,
		"",
		m.query.View(),
		m.category.View(),
		"",
		help,
	}, "\n")
	return m.box.Render(body)
}
