package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/repositories"
	"github.com/desertthunder/showtrack/internal/services"
	"github.com/desertthunder/showtrack/internal/shared"
	tu "github.com/desertthunder/showtrack/internal/testing"
	"github.com/urfave/cli/v3"
)

type stubProvider struct {
	candidates []services.SeriesSummary
	detail     *services.SeriesDetail
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) SearchSeries(ctx context.Context, name string) ([]services.SeriesSummary, error) {
	return s.candidates, nil
}

func (s *stubProvider) GetSeries(ctx context.Context, seriesID string) (*services.SeriesDetail, error) {
	return s.detail, nil
}

func (s *stubProvider) FetchBanner(ctx context.Context, path string) (*services.Banner, error) {
	return &services.Banner{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}, nil
}

func lostStub() *stubProvider {
	return &stubProvider{
		candidates: []services.SeriesSummary{{SeriesID: "73739", SeriesName: "Lost"}},
		detail: &services.SeriesDetail{
			Series: services.SeriesRecord{ID: "73739", SeriesName: "Lost", Genre: "|Drama|", Network: "ABC", Poster: "posters/73739-1.jpg"},
			Episodes: []services.EpisodeRecord{
				{SeasonNumber: "1", EpisodeNumber: "1", EpisodeName: "Pilot (1)", FirstAired: "2004-09-22"},
			},
		},
	}
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "showtrack", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"showtrack"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := setupTestDB(t)
			provider := lostStub()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				DB:         db,
				Provider:   provider,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.db != db {
				t.Error("expected db to be set")
			}
			if runner.provider != provider {
				t.Error("expected provider to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"serve", "setup", "migrate", "import", "shows", "show", "users", "browse"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("metadataProvider", func(t *testing.T) {
		t.Run("requires API key", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.TVDB.APIKey = ""
			runner := NewRunner(RunnerOpts{Config: config})

			_, err := runner.metadataProvider()
			if err == nil || !strings.Contains(err.Error(), shared.ErrMissingAPIKey.Error()) {
				t.Errorf("expected missing API key error, got %v", err)
			}
		})

		t.Run("builds TVDB client from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.TVDB.APIKey = "key"
			runner := NewRunner(RunnerOpts{Config: config})

			provider, err := runner.metadataProvider()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if provider.Name() == "" {
				t.Error("expected provider name")
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("import then list", func(t *testing.T) {
		db := setupTestDB(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: db, Provider: lostStub(), Output: output})

		if err := runRunnerImport(t, runner, "Lost"); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "[1/4]") || !strings.Contains(result, "[4/4]") {
			t.Errorf("expected progress lines, got %q", result)
		}
		if !strings.Contains(result, "Lost has been added.") {
			t.Errorf("expected success message, got %q", result)
		}

		output.Reset()
		if err := runCommand(t, runner, "shows", "--format", "csv"); err != nil {
			t.Fatalf("shows failed: %v", err)
		}
		if !strings.Contains(output.String(), "73739,Lost,ABC") {
			t.Errorf("expected CSV row, got %q", output.String())
		}
	})

	t.Run("import twice reports exists", func(t *testing.T) {
		db := setupTestDB(t)
		runner := NewRunner(RunnerOpts{DB: db, Provider: lostStub(), Output: &bytes.Buffer{}})

		if err := runRunnerImport(t, runner, "Lost"); err != nil {
			t.Fatalf("first import failed: %v", err)
		}
		err := runRunnerImport(t, runner, "Lost")
		if err == nil || !strings.Contains(err.Error(), "Lost already exists.") {
			t.Errorf("expected exists error, got %v", err)
		}
	})

	t.Run("import unknown show", func(t *testing.T) {
		db := setupTestDB(t)
		runner := NewRunner(RunnerOpts{DB: db, Provider: &stubProvider{}, Output: &bytes.Buffer{}})

		err := runRunnerImport(t, runner, "Nothing Here")
		if err == nil || !strings.Contains(err.Error(), "Nothing Here was not found.") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("shows rejects unknown format", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{DB: setupTestDB(t), Output: &bytes.Buffer{}})

		err := runCommand(t, runner, "shows", "--format", "xml")
		if err == nil || !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("expected format error, got %v", err)
		}
	})

	t.Run("shows rejects non-letter alphabet", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{DB: setupTestDB(t), Output: &bytes.Buffer{}})

		err := runCommand(t, runner, "shows", "--alphabet", "a1")
		if err == nil || !strings.Contains(err.Error(), "only letters") {
			t.Errorf("expected alphabet error, got %v", err)
		}
	})

	t.Run("shows genre ignores alphabet", func(t *testing.T) {
		db := setupTestDB(t)
		shows := repositories.NewShowRepository(db)
		for _, show := range []*models.Show{
			{ID: 1, Name: "Lost", Genre: []string{"Drama"}},
			{ID: 2, Name: "Seinfeld", Genre: []string{"Comedy"}},
		} {
			if err := shows.Create(context.Background(), show); err != nil {
				t.Fatalf("failed to seed show: %v", err)
			}
		}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: db, Output: output})

		if err := runCommand(t, runner, "shows", "--genre", "Drama", "--alphabet", "1", "--json"); err != nil {
			t.Fatalf("shows failed: %v", err)
		}
		if !strings.Contains(output.String(), `"Lost"`) || strings.Contains(output.String(), "Seinfeld") {
			t.Errorf("expected only Drama shows, got %q", output.String())
		}
	})

	t.Run("show writes markdown", func(t *testing.T) {
		db := setupTestDB(t)
		if err := repositories.NewShowRepository(db).Create(context.Background(), &models.Show{
			ID: 73739, Name: "Lost", Episodes: []models.Episode{{Season: 1, EpisodeNumber: 1, EpisodeName: "Pilot (1)"}},
		}); err != nil {
			t.Fatalf("failed to seed show: %v", err)
		}

		runner := NewRunner(RunnerOpts{DB: db, Output: &bytes.Buffer{}})
		path := filepath.Join(t.TempDir(), "lost.md")

		if err := runCommand(t, runner, "show", "--output", path, "73739"); err != nil {
			t.Fatalf("show failed: %v", err)
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "# Lost") || !strings.Contains(content, "1. Pilot (1)") {
			t.Errorf("unexpected markdown: %s", content)
		}
	})

	t.Run("users hides hashes", func(t *testing.T) {
		db := setupTestDB(t)
		if _, err := repositories.NewUserRepository(db).Create(context.Background(), "fan@example.com", "hunter2"); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: db, Output: output})

		if err := runCommand(t, runner, "users", "--json"); err != nil {
			t.Fatalf("users failed: %v", err)
		}
		if !strings.Contains(output.String(), "fan@example.com") {
			t.Errorf("expected user email, got %s", output.String())
		}
		if strings.Contains(output.String(), "$2a$") {
			t.Error("password hash leaked")
		}
	})

	t.Run("migrate status", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: setupTestDB(t), Output: output})

		if err := runCommand(t, runner, "migrate", "--status"); err != nil {
			t.Fatalf("migrate failed: %v", err)
		}
		if !strings.Contains(output.String(), "[✓] 0000") {
			t.Errorf("expected applied migration, got %q", output.String())
		}
	})

	t.Run("migrate up to date", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: setupTestDB(t), Output: output})

		if err := runCommand(t, runner, "migrate"); err != nil {
			t.Fatalf("migrate failed: %v", err)
		}
		if !strings.Contains(output.String(), "up to date") {
			t.Errorf("expected up to date, got %q", output.String())
		}
	})

	t.Run("setup creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := runCommand(t, runner, "setup", "--config", filepath.Join(dir, "config.toml")); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	})
}

func runRunnerImport(t *testing.T, runner *Runner, name string) error {
	t.Helper()
	return runCommand(t, runner, "import", name)
}
