package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// composeModal centres a modal over a faded copy of the screen behind it.
// The modal is clipped to the screen when it does not fit.
func composeModal(screen, modal string, screenW, screenH int) string {
	if screenW <= 0 {
		screenW = fallbackWidth
	}
	if screenH <= 0 {
		screenH = fallbackHeight
	}
	w := min(lipgloss.Width(modal), screenW)
	h := min(lipgloss.Height(modal), screenH)

	back := lipgloss.NewLayer(lipgloss.NewStyle().Faint(true).Render(screen)).
		Width(screenW).
		Height(screenH)
	front := lipgloss.NewLayer(modal).
		Width(w).
		Height(h).
		X((screenW - w) / 2).
		Y((screenH - h) / 2)

	return lipgloss.NewCanvas(back, front).Render()
}
