package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run mounts the table full-screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, st Store, opts ...Option) error {
	opts = append([]Option{WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(st, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
