package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/wt/internal/category"
	"github.com/idilsaglam/wt/internal/todo"
)

const flushTimeout = 5 * time.Second

// Run starts the interactive list and flushes pending writes when it exits.
func Run(ctx context.Context, s *todo.Store, c *category.Controller, opts Options) error {
	p := tea.NewProgram(New(s, c, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	return s.Flush(flushCtx)
}
