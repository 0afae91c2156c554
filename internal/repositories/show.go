package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/shared"
)

const showColumns = "id, name, airs_day_of_week, airs_time, first_aired, network, overview, rating, rating_count, status, poster"

// ShowRepository persists [models.Show] records together with their genres, episodes and subscribers.
type ShowRepository struct {
	db *sql.DB
}

// NewShowRepository creates a new [ShowRepository] with the given database connection
func NewShowRepository(db *sql.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// Create inserts a show with its genre set and ordered episodes in a single transaction.
//
// Returns [shared.ErrDuplicateKey] when a show with the same id already exists; nothing is written in that case.
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	if err := show.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(ctx, tx, "shows")
	if err != nil {
		return storageError("generate sequence", err)
	}

	query := `
		INSERT INTO shows (id, sequence, name, airs_day_of_week, airs_time, first_aired, network, overview,
			rating, rating_count, status, poster, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		show.ID, sequence, show.Name, show.AirsDayOfWeek, show.AirsTime, nullTime(show.FirstAired), show.Network,
		show.Overview, show.Rating, show.RatingCount, show.Status, show.Poster, time.Now().UTC(),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: show %d", shared.ErrDuplicateKey, show.ID)
		}
		return storageError("insert show", err)
	}

	for _, genre := range show.Genre {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO show_genres (show_id, genre) VALUES (?, ?)", show.ID, genre,
		); err != nil {
			return storageError("insert genre", err)
		}
	}

	for i, ep := range show.Episodes {
		query := `
			INSERT INTO episodes (show_id, position, season, episode_number, episode_name, first_aired, overview)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			show.ID, i, ep.Season, ep.EpisodeNumber, ep.EpisodeName, nullTime(ep.FirstAired), ep.Overview,
		); err != nil {
			return storageError("insert episode", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit show", err)
	}

	return nil
}

// Get retrieves a fully populated show by its provider series id.
func (r *ShowRepository) Get(ctx context.Context, id int) (*models.Show, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+showColumns+" FROM shows WHERE id = ?", id)

	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: show %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageError("query show", err)
	}

	if err := r.hydrate(ctx, show); err != nil {
		return nil, err
	}
	return show, nil
}

// List returns shows matching filter in store (insertion) order.
//
// A genre filter matches shows whose genre set contains the exact value. An alphabet filter
// matches shows whose name starts with any of the given letters, case-insensitively. With
// neither set the first [models.DefaultListLimit] shows are returned.
func (r *ShowRepository) List(ctx context.Context, filter models.ShowFilter) ([]*models.Show, error) {
	query := "SELECT " + showColumns + " FROM shows"
	var args []any

	switch filter.Mode() {
	case "genre":
		query += " WHERE id IN (SELECT show_id FROM show_genres WHERE genre = ?) ORDER BY sequence ASC"
		args = append(args, filter.Genre)
	case "alphabet":
		letters := filter.Letters()
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(letters)), ", ")
		query += fmt.Sprintf(" WHERE lower(substr(name, 1, 1)) IN (%s) ORDER BY sequence ASC", placeholders)
		for _, l := range letters {
			args = append(args, l)
		}
	default:
		query += " ORDER BY sequence ASC LIMIT ?"
		args = append(args, models.DefaultListLimit)
	}

	shows, err := r.queryShows(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for _, show := range shows {
		if err := r.hydrate(ctx, show); err != nil {
			return nil, err
		}
	}
	return shows, nil
}

// Exists reports whether a show with the given id is stored.
func (r *ShowRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM shows WHERE id = ?", id).Scan(&n); err != nil {
		return false, storageError("count shows", err)
	}
	return n > 0, nil
}

// Subscribe adds userID to the show's subscriber list. Subscribing twice is a no-op.
func (r *ShowRepository) Subscribe(ctx context.Context, showID int, userID string) error {
	if err := r.requireShow(ctx, showID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO show_subscribers (show_id, user_id, created_at) VALUES (?, ?, ?)",
		showID, userID, time.Now().UTC(),
	)
	if err != nil {
		return storageError("insert subscriber", err)
	}
	return nil
}

// Unsubscribe removes userID from the show's subscriber list. Removing an absent subscriber is a no-op.
func (r *ShowRepository) Unsubscribe(ctx context.Context, showID int, userID string) error {
	if err := r.requireShow(ctx, showID); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM show_subscribers WHERE show_id = ? AND user_id = ?", showID, userID,
	); err != nil {
		return storageError("delete subscriber", err)
	}
	return nil
}

func (r *ShowRepository) requireShow(ctx context.Context, id int) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: show %d", shared.ErrNotFound, id)
	}
	return nil
}

// queryShows reads every matching row and closes the cursor before returning, so callers may
// issue follow-up queries on a single-connection pool.
func (r *ShowRepository) queryShows(ctx context.Context, query string, args ...any) ([]*models.Show, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("query shows", err)
	}
	defer rows.Close()

	shows := []*models.Show{}
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, storageError("scan show", err)
		}
		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate shows", err)
	}
	return shows, nil
}

// hydrate loads the genre set, episodes and subscribers of show.
func (r *ShowRepository) hydrate(ctx context.Context, show *models.Show) error {
	genres, err := r.queryStrings(ctx, "SELECT genre FROM show_genres WHERE show_id = ? ORDER BY rowid", show.ID)
	if err != nil {
		return storageError("query genres", err)
	}
	show.Genre = genres

	subscribers, err := r.queryStrings(ctx,
		"SELECT user_id FROM show_subscribers WHERE show_id = ? ORDER BY rowid", show.ID,
	)
	if err != nil {
		return storageError("query subscribers", err)
	}
	show.Subscribers = subscribers

	episodes, err := r.queryEpisodes(ctx, show.ID)
	if err != nil {
		return storageError("query episodes", err)
	}
	show.Episodes = episodes

	return nil
}

func (r *ShowRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *ShowRepository) queryEpisodes(ctx context.Context, showID int) ([]models.Episode, error) {
	query := `
		SELECT season, episode_number, episode_name, first_aired, overview
		FROM episodes WHERE show_id = ? ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := []models.Episode{}
	for rows.Next() {
		var (
			ep         models.Episode
			firstAired sql.NullTime
		)
		if err := rows.Scan(&ep.Season, &ep.EpisodeNumber, &ep.EpisodeName, &firstAired, &ep.Overview); err != nil {
			return nil, err
		}
		if firstAired.Valid {
			t := firstAired.Time
			ep.FirstAired = &t
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

func scanShow(row rowScanner) (*models.Show, error) {
	var (
		show       models.Show
		firstAired sql.NullTime
	)

	err := row.Scan(
		&show.ID, &show.Name, &show.AirsDayOfWeek, &show.AirsTime, &firstAired, &show.Network,
		&show.Overview, &show.Rating, &show.RatingCount, &show.Status, &show.Poster,
	)
	if err != nil {
		return nil, err
	}

	if firstAired.Valid {
		t := firstAired.Time
		show.FirstAired = &t
	}
	return &show, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
