package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// BrowseResult reports what happened during a browse run
type BrowseResult struct {
	Saved int
}

// RunBrowser starts the interactive session browser
func RunBrowser(ctx context.Context, backend Backend) (BrowseResult, error) {
	sessions, err := backend.ListSessions(ctx)
	if err != nil {
		return BrowseResult{}, err
	}

	model := NewBrowserModel(ctx, backend, sessions)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return BrowseResult{}, err
	}

	m, ok := finalModel.(BrowserModel)
	if !ok {
		return BrowseResult{}, nil
	}
	result := BrowseResult{Saved: m.saved}
	if m.err != nil {
		return result, fmt.Errorf("last annotation was not saved: %w", m.err)
	}
	return result, nil
}
