package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/desertthunder/songsheet/internal/store"
	"github.com/desertthunder/songsheet/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and editing song sheets.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	shared.SetLogLevel(fileLogger, r.config.Level())
	r.SetLogger(fileLogger)

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, svc, store.New(), ui.Options{
		Tolerance: r.config.Scroll.Tolerance,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
