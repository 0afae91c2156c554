package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to every stored password.
const PasswordCost = 10

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

const userColumns = "id, sequence, email, password, created_at, updated_at"

// UserRepository persists [models.User] accounts and owns password hashing.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create hashes password with a fresh salt and inserts a new user with a generated ID and sequence.
//
// Returns [shared.ErrDuplicateKey] when the email is already registered.
func (r *UserRepository) Create(ctx context.Context, email, password string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password exceeds %d bytes", shared.ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, string(hash))
	user.ID = shared.GenerateID()

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer tx.Rollback()

	if user.Sequence, err = nextSequence(ctx, tx, "users"); err != nil {
		return nil, storageError("generate sequence", err)
	}

	query := `
		INSERT INTO users (id, sequence, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query, user.ID, user.Sequence, user.Email, user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: email %s", shared.ErrDuplicateKey, email)
		}
		return nil, storageError("insert user", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageError("commit user", err)
	}

	return user, nil
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageError("query user", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, email)
	}
	if err != nil {
		return nil, storageError("query user", err)
	}
	return user, nil
}

// List retrieves every user in sequence order.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY sequence ASC")
	if err != nil {
		return nil, storageError("query users", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storageError("scan user", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate users", err)
	}

	return users, nil
}

// VerifyPassword compares candidate against the user's stored hash.
//
// The comparison is bcrypt's, which is constant-time with respect to the hash contents.
func (r *UserRepository) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user      models.User
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&user.ID, &user.Sequence, &user.Email, &user.Password, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return &user, nil
}
