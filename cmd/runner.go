package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/services"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	provider   services.MetadataService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB and Provider are normally built from Config on demand; tests inject them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB
	Provider   services.MetadataService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		provider:   opts.Provider,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, migrateCommand, importCommand, showsCommand, showCommand, usersCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase returns the injected database or opens and migrates the configured one.
// The returned close func is a no-op for an injected database.
func (r *Runner) openDatabase() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		r.logger.Info("applied migrations", "versions", applied)
	}

	return db, func() { db.Close() }, nil
}

// metadataProvider returns the injected provider or a TVDB client built from config.
func (r *Runner) metadataProvider() (services.MetadataService, error) {
	if r.provider != nil {
		return r.provider, nil
	}

	provider, err := services.NewTVDBServiceFromConfig(r.config.TVDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create TVDB client: %w", err)
	}
	return provider, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
