package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewUserRepository(setupTestDB(t))

			if _, err := repo.Create(ctx, "", "pw"); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
			}
			if _, err := repo.Create(ctx, "a@example.com", ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
			}
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			repo := NewUserRepository(setupTestDB(t))

			if _, err := repo.Create(ctx, "test@example.com", "one"); err != nil {
				t.Fatalf("failed to create first user: %v", err)
			}

			_, err := repo.Create(ctx, "test@example.com", "two")
			if !errors.Is(err, shared.ErrDuplicateKey) {
				t.Fatalf("expected ErrDuplicateKey, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewUserRepository(setupTestDB(t))

			if _, err := repo.Get(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("StorageFailures", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectBegin().WillReturnError(errors.New("database is locked"))
		_, err = repo.Create(ctx, "a@example.com", "pw")
		assert.ErrorIs(t, err, shared.ErrStorage)

		mock.ExpectQuery("SELECT (.+) FROM users ORDER BY sequence").WillReturnError(errors.New("disk I/O error"))
		_, err = repo.List(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WillReturnError(errors.New("disk I/O error"))
		_, err = repo.Get(ctx, "abc")
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.NotErrorIs(t, err, shared.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShowRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewShowRepository(setupTestDB(t))

			err := repo.Create(ctx, &models.Show{Name: "No ID"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("InsertFailureIsNotDuplicate", func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE shows_sequence").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery("SELECT value FROM shows_sequence").
				WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))
			mock.ExpectExec("INSERT INTO shows").WillReturnError(errors.New("disk full"))
			mock.ExpectRollback()

			err = NewShowRepository(db).Create(ctx, newShow(1, "Lost"))
			assert.ErrorIs(t, err, shared.ErrStorage)
			assert.NotErrorIs(t, err, shared.ErrDuplicateKey)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewShowRepository(setupTestDB(t))

			if _, err := repo.Get(ctx, 404); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("StorageFailure", func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery("SELECT (.+) FROM shows WHERE id").WillReturnError(errors.New("disk I/O error"))

			_, err = NewShowRepository(db).Get(ctx, 1)
			assert.ErrorIs(t, err, shared.ErrStorage)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("List", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM shows ORDER BY sequence ASC LIMIT").
			WithArgs(models.DefaultListLimit).
			WillReturnError(errors.New("disk I/O error"))

		_, err = NewShowRepository(db).List(ctx, models.ShowFilter{})
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Subscribe", func(t *testing.T) {
		t.Run("UnknownShow", func(t *testing.T) {
			repo := NewShowRepository(setupTestDB(t))

			if err := repo.Subscribe(ctx, 1, "user"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := repo.Unsubscribe(ctx, 1, "user"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})
}

func TestIsDuplicateKey(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "primary key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, want: true},
		{name: "unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: true},
		{name: "wrapped unique", err: fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), want: true},
		{name: "foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKey(tt.err); got != tt.want {
				t.Errorf("isDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
