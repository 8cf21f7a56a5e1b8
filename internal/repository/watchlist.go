package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelshelf/reelshelf/internal/domain"
)

// WatchlistRepository owns the per-(user,movie) shelf entries. The
// status/priority invariant is backed by a CHECK constraint in storage and
// validated again at the request layer before any write.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

const watchlistColumns = `user_id, movie_id, status, watchlist_priority, created_at`

// WatchlistAddParams bundles the fields required to create a shelf entry.
type WatchlistAddParams struct {
	UserID   int64
	MovieID  int64
	Status   domain.WatchlistStatus
	Priority *int32
}

// Add creates a shelf entry. An existing entry for the pair fails with
// ErrConflict; adding never silently overwrites.
func (r *WatchlistRepository) Add(ctx context.Context, params WatchlistAddParams) (domain.WatchlistEntry, error) {
	query := `
        INSERT INTO user_movie_shelf (user_id, movie_id, status, watchlist_priority)
        VALUES ($1,$2,$3,$4)
        RETURNING ` + watchlistColumns + `
    `

	entry, err := scanWatchlistEntry(r.pool.QueryRow(ctx, query, params.UserID, params.MovieID, params.Status, params.Priority))
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return domain.WatchlistEntry{}, ErrConflict
		case pgForeignKeyViolation:
			return domain.WatchlistEntry{}, ErrNotFound
		}
		return domain.WatchlistEntry{}, err
	}
	return entry, nil
}

// UpdateStatus changes an entry's status in one conditional statement. Any
// status other than Want to Watch clears the stored priority; Want to Watch
// with a nil priority retains whatever priority was stored before.
func (r *WatchlistRepository) UpdateStatus(ctx context.Context, userID, movieID int64, status domain.WatchlistStatus, priority *int32) (domain.WatchlistEntry, error) {
	query := `
        UPDATE user_movie_shelf
        SET status = $3,
            watchlist_priority = CASE
                WHEN $3 <> 'Want to Watch' THEN NULL
                WHEN $4::int IS NOT NULL THEN $4::int
                ELSE watchlist_priority
            END
        WHERE user_id = $1 AND movie_id = $2
        RETURNING ` + watchlistColumns + `
    `

	entry, err := scanWatchlistEntry(r.pool.QueryRow(ctx, query, userID, movieID, status, priority))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WatchlistEntry{}, ErrNotFound
		}
		return domain.WatchlistEntry{}, err
	}
	return entry, nil
}

// ListByUser returns the user's shelf entries, newest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WatchlistEntry, error) {
	query := `
        SELECT ` + watchlistColumns + `
        FROM user_movie_shelf
        WHERE user_id = $1
        ORDER BY created_at DESC, movie_id DESC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWatchlistEntries(rows)
}

// ListAll returns every user's shelf entries. Callers gate access; this is an
// administrative read.
func (r *WatchlistRepository) ListAll(ctx context.Context) ([]domain.WatchlistEntry, error) {
	query := `
        SELECT ` + watchlistColumns + `
        FROM user_movie_shelf
        ORDER BY user_id ASC, created_at DESC, movie_id DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWatchlistEntries(rows)
}

func collectWatchlistEntries(rows pgx.Rows) ([]domain.WatchlistEntry, error) {
	entries := make([]domain.WatchlistEntry, 0)
	for rows.Next() {
		entry, err := scanWatchlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanWatchlistEntry(row pgx.Row) (domain.WatchlistEntry, error) {
	var entry domain.WatchlistEntry
	err := row.Scan(
		&entry.UserID,
		&entry.MovieID,
		&entry.Status,
		&entry.Priority,
		&entry.CreatedAt,
	)
	if err != nil {
		return domain.WatchlistEntry{}, err
	}
	return entry, nil
}
