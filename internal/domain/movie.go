package domain

// Movie is the catalog metadata returned by the external movie data provider.
// It is immutable from this service's perspective and never persisted here.
type Movie struct {
	ID          int64
	Title       string
	Overview    string
	PosterPath  *string
	ReleaseDate *string
	VoteAverage float64
	Genres      []string
}
