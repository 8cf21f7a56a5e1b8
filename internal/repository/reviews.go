package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelshelf/reelshelf/internal/domain"
)

// ReviewsRepository owns the unique-per-(user,movie) review rows.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `id, user_id, movie_id, rating, review_text, created_at, updated_at`

// ReviewUpsertParams captures the payload required to upsert a review.
type ReviewUpsertParams struct {
	UserID  int64
	MovieID int64
	Rating  float64
	Text    string
}

// Upsert inserts a new review or overwrites the existing one for the same
// (user, movie) pair in a single statement, so concurrent submissions can
// never race into duplicate rows. The bool result reports whether the row was
// newly created. created_at is never touched on update; it anchors the
// favorite-movie tie-break.
func (r *ReviewsRepository) Upsert(ctx context.Context, params ReviewUpsertParams) (domain.Review, bool, error) {
	const query = `
        INSERT INTO user_reviews (user_id, movie_id, rating, review_text)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, movie_id)
        DO UPDATE SET rating = EXCLUDED.rating,
                      review_text = EXCLUDED.review_text,
                      updated_at = now()
        RETURNING ` + reviewColumns + `, (xmax = 0) AS inserted
    `

	var review domain.Review
	var inserted bool
	err := r.pool.QueryRow(ctx, query, params.UserID, params.MovieID, params.Rating, params.Text).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return domain.Review{}, false, ErrNotFound
		}
		return domain.Review{}, false, err
	}
	return review, inserted, nil
}

// ListByUser returns the user's reviews, most recently touched first. A user
// with no reviews yields an empty slice, not an error.
func (r *ReviewsRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM user_reviews
        WHERE user_id = $1
        ORDER BY updated_at DESC, id DESC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByMovie returns every review for a movie joined with the reviewer's
// username, most recently touched first.
func (r *ReviewsRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.MovieReview, error) {
	query := `
        SELECT ur.id, ur.user_id, ur.movie_id, ur.rating, ur.review_text,
               ur.created_at, ur.updated_at, u.username
        FROM user_reviews ur
        JOIN users u ON ur.user_id = u.id
        WHERE ur.movie_id = $1
        ORDER BY ur.updated_at DESC, ur.id DESC
    `

	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.MovieReview, 0)
	for rows.Next() {
		var mr domain.MovieReview
		err := rows.Scan(
			&mr.ID,
			&mr.UserID,
			&mr.MovieID,
			&mr.Rating,
			&mr.ReviewText,
			&mr.CreatedAt,
			&mr.UpdatedAt,
			&mr.Username,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Stats computes the derived profile values for a user in one round trip:
// review count plus the movie id holding the user's maximum rating, with ties
// broken by the earliest review. The movie id is nil when the count is zero.
func (r *ReviewsRepository) Stats(ctx context.Context, userID int64) (domain.ProfileStats, error) {
	const query = `
        SELECT COUNT(*)::int8,
               (SELECT movie_id
                FROM user_reviews
                WHERE user_id = $1
                ORDER BY rating DESC, created_at ASC, id ASC
                LIMIT 1)
        FROM user_reviews
        WHERE user_id = $1
    `

	var stats domain.ProfileStats
	var topMovie *int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&stats.ReviewCount, &topMovie)
	if err != nil {
		return domain.ProfileStats{}, fmt.Errorf("profile stats: %w", err)
	}
	stats.FavoriteMovieID = topMovie
	stats.HighestRatedMovieID = topMovie
	return stats, nil
}

// Get retrieves a review for a specific (user, movie) pair.
func (r *ReviewsRepository) Get(ctx context.Context, userID, movieID int64) (domain.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM user_reviews
        WHERE user_id = $1 AND movie_id = $2
    `
	review, err := scanReview(r.pool.QueryRow(ctx, query, userID, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}
