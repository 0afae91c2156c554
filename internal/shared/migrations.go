package shared

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}

// loadMigrations reads all migration files from the embedded filesystem and returns them sorted by version.
//
// Files are named "NNNN_description_up.sql" / "NNNN_description_down.sql".
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	byVersion := make(map[int]*Migration)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}

		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		content, err := migrationFiles.ReadFile(path.Join("sql", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version}
			byVersion[version] = m
		}

		switch {
		case strings.HasSuffix(rest, "_up.sql"):
			m.Up = string(content)
			m.Name = strings.TrimSuffix(rest, "_up.sql")
		case strings.HasSuffix(rest, "_down.sql"):
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("incomplete migration for version %d", m.Version)
		}
		migrations = append(migrations, *m)
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	return migrations, nil
}

// RunMigrations executes all pending migrations on the database and returns the versions it applied.
// Creates a schema_migrations table to track applied migrations.
func RunMigrations(db *sql.DB) ([]int, error) {
	ctx := context.Background()

	migrations, err := loadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := createMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []int
	for _, migration := range migrations {
		var exists bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", migration.Version).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			continue
		}

		if err := execMigration(ctx, db, migration.Up, "INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
			return applied, fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		applied = append(applied, migration.Version)
	}

	return applied, nil
}

// RollbackMigration rolls back the most recent migration and returns its version.
func RollbackMigration(db *sql.DB) (int, error) {
	ctx := context.Background()

	migrations, err := loadMigrations()
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to check migrations: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("no migrations to rollback")
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version != current {
			continue
		}
		if err := execMigration(ctx, db, migration.Down, "DELETE FROM schema_migrations WHERE version = ?", migration.Version); err != nil {
			return 0, fmt.Errorf("failed to rollback migration %d: %w", migration.Version, err)
		}
		return current, nil
	}

	return 0, fmt.Errorf("migration version %d not found", current)
}

// MigrationStatuses lists every embedded migration alongside whether it has been applied.
func MigrationStatuses(db *sql.DB) ([]MigrationStatus, error) {
	ctx := context.Background()

	migrations, err := loadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := createMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	statuses := make([]MigrationStatus, len(migrations))
	for i, m := range migrations {
		statuses[i] = MigrationStatus{Version: m.Version, Name: m.Name, Applied: applied[m.Version]}
	}
	return statuses, nil
}

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// execMigration runs each statement of script and the bookkeeping statement in one transaction.
func execMigration(ctx context.Context, db *sql.DB, script, record string, version int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}

	return tx.Commit()
}

// removeComments strips "--" line comments from a statement.
func removeComments(sql string) string {
	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
