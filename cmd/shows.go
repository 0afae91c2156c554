package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/showtrack/internal/formatter"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/repositories"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/desertthunder/showtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import runs the show importer for one name, printing each phase as it starts.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: show name is required", shared.ErrMissingArgument)
	}

	provider, err := r.metadataProvider()
	if err != nil {
		return err
	}

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	importer := tasks.NewShowImporter(provider, repositories.NewShowRepository(db), r.logger)

	var show *models.Show
	progress := make(chan tasks.ProgressUpdate, 8)
	go func() {
		show, err = importer.Import(ctx, name, progress)
		close(progress)
	}()

	for update := range progress {
		r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(show, true)
	}
	return r.writePlain("✓ %s has been added. (%d episodes)\n", show.Name, len(show.Episodes))
}

// Shows lists stored shows as a table, JSON or CSV.
func (r *Runner) Shows(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if cmd.Bool("json") {
		format = "json"
	}

	filter := models.ShowFilter{Genre: cmd.String("genre"), Alphabet: cmd.String("alphabet")}
	if filter.Genre != "" {
		filter.Alphabet = ""
	}
	for _, c := range filter.Alphabet {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return fmt.Errorf("%w: --alphabet must contain only letters", shared.ErrInvalidArgument)
		}
	}

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	shows, err := repositories.NewShowRepository(db).List(ctx, filter)
	if err != nil {
		return err
	}

	switch format {
	case "table", "":
		if len(shows) == 0 {
			return r.writePlain("No shows found\n")
		}
		return r.writePlain("%s\n", formatter.ShowsTable(shows))
	case "json":
		return r.writeJSON(shows, true)
	case "csv":
		data, err := formatter.ExportToCSV(shows)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return fmt.Errorf("%w: unknown format %q (want table, json or csv)", shared.ErrInvalidArgument, format)
	}
}

// Show prints one stored show as a Markdown episode guide or JSON.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id := cmd.IntArg("id")
	if id <= 0 {
		return fmt.Errorf("%w: a positive show id is required", shared.ErrMissingArgument)
	}

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	show, err := repositories.NewShowRepository(db).Get(ctx, id)
	if err != nil {
		return err
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "markdown", "md", "":
		data = formatter.ExportToMarkdown(show)
	case "json":
		if data, err = shared.MarshalJSON(show, true); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: unknown format %q (want markdown or json)", shared.ErrInvalidArgument, format)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.logger.Info("show written", "id", show.ID, "path", path)
		return nil
	}
	return r.writePlain("%s", data)
}

// Users lists registered users. Password hashes are never printed.
func (r *Runner) Users(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	users, err := repositories.NewUserRepository(db).List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}
	if len(users) == 0 {
		return r.writePlain("No users found\n")
	}
	return r.writePlain("%s\n", formatter.UsersTable(users))
}
