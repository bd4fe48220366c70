package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/ui"
	"github.com/urfave/cli/v3"
)

// Console launches the interactive terminal UI.
func (r *Runner) Console(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Console.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, repo, err := r.openHistory()
	if err != nil {
		fileLogger.Warn("batch history unavailable", "error", err)
		repo = nil
	} else {
		defer db.Close()
	}

	model := ui.NewModel(ctx, ui.Deps{
		Config:  r.config,
		Client:  r.client,
		History: repo,
		Logger:  fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}

	return nil
}
