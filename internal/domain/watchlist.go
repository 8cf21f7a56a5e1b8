package domain

import "time"

// WatchlistStatus enumerates the recognized shelf states. The wire and
// storage representations use the display strings.
type WatchlistStatus string

const (
	StatusCompleted   WatchlistStatus = "Completed"
	StatusWantToWatch WatchlistStatus = "Want to Watch"
	StatusNowWatching WatchlistStatus = "Now Watching"
)

// ParseWatchlistStatus validates a raw status value.
func ParseWatchlistStatus(raw string) (WatchlistStatus, bool) {
	switch WatchlistStatus(raw) {
	case StatusCompleted, StatusWantToWatch, StatusNowWatching:
		return WatchlistStatus(raw), true
	}
	return "", false
}

// WatchlistEntry is one user's tracked viewing status for one movie.
// Invariant: Priority may be non-nil only when Status == StatusWantToWatch.
type WatchlistEntry struct {
	UserID    int64
	MovieID   int64
	Status    WatchlistStatus
	Priority  *int32
	CreatedAt time.Time
}
