package moviedata

import "testing"

func FuzzConvertToMovie(f *testing.F) {
	f.Add(int64(27205), "Inception", "A thief who steals corporate secrets", "/poster.jpg", 8.3)

	f.Fuzz(func(t *testing.T, id int64, title, overview, poster string, vote float64) {
		resp := apiResponse{
			Title:    optionalString(title),
			Overview: optionalString(overview),
		}
		if id%2 == 0 {
			resp.ID = &id
		}
		if poster != "" {
			resp.PosterPath = &poster
		}
		resp.VoteAverage = &vote

		movie := convertToMovie(id, resp)
		if movie == nil {
			t.Fatalf("convertToMovie returned nil")
		}
		if movie.Genres == nil {
			t.Fatalf("genres should never be nil")
		}
		if resp.ID == nil && movie.ID != id {
			t.Fatalf("movie id fallback = %d, want %d", movie.ID, id)
		}
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
