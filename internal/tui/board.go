package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"pokehub/internal/engine"
)

// RunBoard opens the interactive catalog and loads svc in the background.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
