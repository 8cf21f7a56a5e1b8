package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelshelf/reelshelf/internal/domain"
	"github.com/reelshelf/reelshelf/internal/moviedata"
	"github.com/reelshelf/reelshelf/internal/repository"
)

type reviewSubmitRequest struct {
	Rating     *float64 `json:"rating" validate:"required,gte=0,lte=10"`
	ReviewText string   `json:"review_text" validate:"max=5000"`
}

type reviewResponse struct {
	ID         int64          `json:"id"`
	MovieID    int64          `json:"movie_id"`
	Rating     float64        `json:"rating"`
	ReviewText string         `json:"review_text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Movie      *movieResponse `json:"movie"`
}

type movieReviewResponse struct {
	ID         int64     `json:"id"`
	Rating     float64   `json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Username   string    `json:"username"`
}

type movieResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	ReleaseDate *string  `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
}

type reviewSubmitResponse struct {
	Review  reviewResponse `json:"review"`
	Created bool           `json:"created"`
	Message string         `json:"message"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUsername(w, r)
	if !ok {
		return
	}
	movieID, ok := s.parseMovieIDParam(w, r)
	if !ok {
		return
	}

	var req reviewSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "rating is required and must be between 0 and 10")
		return
	}

	if !s.requireMovie(r.Context(), w, movieID) {
		return
	}

	review, inserted, err := s.repo.Reviews.Upsert(r.Context(), repository.ReviewUpsertParams{
		UserID:  userID,
		MovieID: movieID,
		Rating:  *req.Rating,
		Text:    req.ReviewText,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "user or movie not found")
			return
		}
		s.logger.Printf("upsert review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to save review")
		return
	}

	status := http.StatusOK
	message := "review updated"
	if inserted {
		status = http.StatusCreated
		message = "review created"
	}
	s.respondData(w, status, reviewSubmitResponse{
		Review:  toReviewResponse(review, nil),
		Created: inserted,
		Message: message,
	})
}

func (s *Server) handleUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUsername(w, r)
	if !ok {
		return
	}

	reviews, err := s.repo.Reviews.ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Printf("list user reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	movieIDs := make([]int64, 0, len(reviews))
	for _, review := range reviews {
		movieIDs = append(movieIDs, review.MovieID)
	}
	movies := s.fetchMovies(r.Context(), movieIDs)

	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review, movies[review.MovieID]))
	}
	s.respondData(w, http.StatusOK, items)
}

func (s *Server) handleMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := s.parseMovieIDParam(w, r)
	if !ok {
		return
	}

	reviews, err := s.repo.Reviews.ListByMovie(r.Context(), movieID)
	if err != nil {
		s.logger.Printf("list movie reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	items := make([]movieReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, movieReviewResponse{
			ID:         review.ID,
			Rating:     review.Rating,
			ReviewText: review.ReviewText,
			CreatedAt:  review.CreatedAt,
			UpdatedAt:  review.UpdatedAt,
			Username:   review.Username,
		})
	}
	s.respondData(w, http.StatusOK, items)
}

// resolveUsername translates the {username} path param through the users
// repository. Handlers never trust client-supplied ids.
func (s *Server) resolveUsername(w http.ResponseWriter, r *http.Request) (int64, bool) {
	username := chi.URLParam(r, "username")
	if username == "" {
		s.respondError(w, http.StatusBadRequest, "missing username parameter")
		return 0, false
	}

	userID, err := s.repo.Users.ResolveID(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("user %q not found", username))
			return 0, false
		}
		s.logger.Printf("resolve username %q error: %v", username, err)
		s.respondError(w, http.StatusInternalServerError, "failed to resolve user")
		return 0, false
	}
	return userID, true
}

func (s *Server) parseMovieIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "movieID")
	movieID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || movieID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid movie id")
		return 0, false
	}
	return movieID, true
}

// requireMovie verifies through the movie data provider that the movie exists
// before a write. A provider 404 maps to a client-visible not found; provider
// outage fails the write rather than accepting an unverifiable id.
func (s *Server) requireMovie(ctx context.Context, w http.ResponseWriter, movieID int64) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, s.movieDataTimeout())
	defer cancel()

	if _, err := s.movieData.Fetch(fetchCtx, movieID); err != nil {
		if errors.Is(err, moviedata.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "movie not found")
			return false
		}
		s.logger.Printf("verify movie %d error: %v", movieID, err)
		s.respondError(w, http.StatusInternalServerError, "could not verify movie")
		return false
	}
	return true
}

// fetchMovies retrieves metadata for each distinct movie id concurrently.
// A failed or timed-out lookup leaves that id absent from the result map;
// listings render those entries with a null movie instead of failing.
func (s *Server) fetchMovies(ctx context.Context, movieIDs []int64) map[int64]*domain.Movie {
	distinct := make(map[int64]struct{}, len(movieIDs))
	for _, id := range movieIDs {
		distinct[id] = struct{}{}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		movies = make(map[int64]*domain.Movie, len(distinct))
	)
	for id := range distinct {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.movieDataTimeout())
			defer cancel()

			movie, err := s.movieData.Fetch(fetchCtx, id)
			if err != nil {
				if !errors.Is(err, moviedata.ErrNotFound) {
					s.logger.Printf("moviedata fetch failed for %d: %v", id, err)
				}
				return
			}
			mu.Lock()
			movies[id] = movie
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return movies
}

func (s *Server) movieDataTimeout() time.Duration {
	return time.Duration(s.cfg.MovieDataTimeoutSecs) * time.Second
}

func toReviewResponse(review domain.Review, movie *domain.Movie) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		MovieID:    review.MovieID,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
		Movie:      toMovieResponse(movie),
	}
}

func toMovieResponse(movie *domain.Movie) *movieResponse {
	if movie == nil {
		return nil
	}
	return &movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Overview:    movie.Overview,
		PosterPath:  movie.PosterPath,
		ReleaseDate: movie.ReleaseDate,
		VoteAverage: movie.VoteAverage,
		Genres:      movie.Genres,
	}
}
