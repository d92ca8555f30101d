package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// deleteResultMsg conveys the outcome of a delete operation back to Update.
type deleteResultMsg struct {
	slug string
	err  error
	dur  time.Duration
}

// deleteCmd removes a post through fn and returns a deleteResultMsg.
func deleteCmd(ctx context.Context, fn func(context.Context, string) error, slug string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if fn == nil {
			return deleteResultMsg{slug: slug, err: errors.New("delete not available")}
		}
		err := fn(ctx, slug)
		return deleteResultMsg{slug: slug, err: err, dur: time.Since(start)}
	}
}
