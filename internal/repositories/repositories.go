package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// nextSequence atomically increments and returns the next sequence number for the given table inside tx.
//
// Sequence numbers record insertion order (store order for listings) independent of primary keys.
func nextSequence(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// isDuplicateKey reports whether err is a SQLite PRIMARY KEY or UNIQUE constraint violation.
func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// storageError wraps err as [shared.ErrStorage] with a description of the failed operation.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", shared.ErrStorage, op, err)
}
