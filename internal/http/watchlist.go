package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/reelshelf/reelshelf/internal/domain"
	"github.com/reelshelf/reelshelf/internal/repository"
)

type watchlistAddRequest struct {
	Status   string `json:"status" validate:"required"`
	Priority *int32 `json:"watchlist_priority" validate:"omitempty,gte=0"`
}

type watchlistUpdateRequest struct {
	Status   string `json:"status" validate:"required"`
	Priority *int32 `json:"watchlist_priority" validate:"omitempty,gte=0"`
}

type watchlistEntryResponse struct {
	UserID    int64          `json:"user_id"`
	MovieID   int64          `json:"movie_id"`
	Status    string         `json:"status"`
	Priority  *int32         `json:"watchlist_priority"`
	CreatedAt time.Time      `json:"created_at"`
	Movie     *movieResponse `json:"movie"`
}

func (s *Server) handleAddWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUsername(w, r)
	if !ok {
		return
	}
	movieID, ok := s.parseMovieIDParam(w, r)
	if !ok {
		return
	}

	var req watchlistAddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "status is required and watchlist_priority must be non-negative")
		return
	}
	status, valid := domain.ParseWatchlistStatus(req.Status)
	if !valid {
		s.respondError(w, http.StatusUnprocessableEntity, "status must be one of Completed, Want to Watch, Now Watching")
		return
	}
	// The invariant is enforced at write time, never patched silently.
	if req.Priority != nil && status != domain.StatusWantToWatch {
		s.respondError(w, http.StatusUnprocessableEntity, "watchlist_priority is only allowed when status is Want to Watch")
		return
	}

	if !s.requireMovie(r.Context(), w, movieID) {
		return
	}

	entry, err := s.repo.Watchlist.Add(r.Context(), repository.WatchlistAddParams{
		UserID:   userID,
		MovieID:  movieID,
		Status:   status,
		Priority: req.Priority,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			s.respondError(w, http.StatusConflict, "watchlist entry already exists for this movie")
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "user or movie not found")
		default:
			s.logger.Printf("add watchlist entry error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "failed to add watchlist entry")
		}
		return
	}
	s.respondData(w, http.StatusCreated, toWatchlistEntryResponse(entry, nil))
}

func (s *Server) handleUpdateWatchlistStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUsername(w, r)
	if !ok {
		return
	}
	movieID, ok := s.parseMovieIDParam(w, r)
	if !ok {
		return
	}

	var req watchlistUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "status is required and watchlist_priority must be non-negative")
		return
	}
	status, valid := domain.ParseWatchlistStatus(req.Status)
	if !valid {
		s.respondError(w, http.StatusUnprocessableEntity, "status must be one of Completed, Want to Watch, Now Watching")
		return
	}

	// Unlike add, a priority sent with a non-Want-to-Watch status is ignored
	// here: the store clears it as part of the status change.
	entry, err := s.repo.Watchlist.UpdateStatus(r.Context(), userID, movieID, status, req.Priority)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "watchlist entry not found")
			return
		}
		s.logger.Printf("update watchlist status error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to update watchlist entry")
		return
	}
	s.respondData(w, http.StatusOK, toWatchlistEntryResponse(entry, nil))
}

func (s *Server) handleUserWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUsername(w, r)
	if !ok {
		return
	}

	entries, err := s.repo.Watchlist.ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Printf("list watchlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}

	movieIDs := make([]int64, 0, len(entries))
	for _, entry := range entries {
		movieIDs = append(movieIDs, entry.MovieID)
	}
	movies := s.fetchMovies(r.Context(), movieIDs)

	items := make([]watchlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toWatchlistEntryResponse(entry, movies[entry.MovieID]))
	}
	s.respondData(w, http.StatusOK, items)
}

// handleListAllWatchlists exposes every user's shelf entries for operational
// debugging. It requires the admin bearer token; the data is private.
func (s *Server) handleListAllWatchlists(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid authentication information")
		return
	}

	entries, err := s.repo.Watchlist.ListAll(r.Context())
	if err != nil {
		s.logger.Printf("list all watchlists error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list watchlists")
		return
	}

	items := make([]watchlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toWatchlistEntryResponse(entry, nil))
	}
	s.respondData(w, http.StatusOK, items)
}

func toWatchlistEntryResponse(entry domain.WatchlistEntry, movie *domain.Movie) watchlistEntryResponse {
	return watchlistEntryResponse{
		UserID:    entry.UserID,
		MovieID:   entry.MovieID,
		Status:    string(entry.Status),
		Priority:  entry.Priority,
		CreatedAt: entry.CreatedAt,
		Movie:     toMovieResponse(movie),
	}
}
