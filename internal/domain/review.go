package domain

import "time"

// Review is a single user's rating and text for one movie. At most one row
// exists per (UserID, MovieID); resubmissions overwrite it in place.
type Review struct {
	ID         int64
	UserID     int64
	MovieID    int64
	Rating     float64
	ReviewText string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MovieReview is a review joined with the reviewer's username for
// movie-centric listings.
type MovieReview struct {
	Review
	Username string
}

// ProfileStats carries the derived per-user values computed from reviews on
// demand. FavoriteMovieID and HighestRatedMovieID follow one selection rule
// (max rating, earliest review wins ties) and are nil when the user has no
// reviews.
type ProfileStats struct {
	ReviewCount         int64
	FavoriteMovieID     *int64
	HighestRatedMovieID *int64
}
