package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/repositories"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/desertthunder/showtrack/internal/tasks"
	"github.com/desertthunder/showtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive show browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.metadataProvider()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := cmd.String("log-file")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	shows := repositories.NewShowRepository(db)
	importer := tasks.NewShowImporter(provider, shows, r.logger)
	filter := models.ShowFilter{Genre: cmd.String("genre"), Alphabet: cmd.String("alphabet")}

	model := ui.NewModel(ctx, shows, importer, filter)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
