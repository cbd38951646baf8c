package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scx/internal/formatter"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/desertthunder/scx/internal/tasks"
	"github.com/desertthunder/scx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive collection browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Logs go to a file so they do not interfere with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	svc, err := r.connect()
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	opts := tasks.ExportOpts{
		Format:     format,
		NumWorkers: 1,
		RateLimit:  r.config.Export.RateLimit,
		MaxPages:   r.config.Export.MaxPages,
	}

	model := ui.NewModel(ctx, svc, tasks.NewEngine(svc, fileLogger), opts)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
