package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelshelf/reelshelf/internal/domain"
	"github.com/reelshelf/reelshelf/internal/repository"
)

type userResponse struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	AvatarURL     *string   `json:"avatarurl"`
	TopFavourites []int64   `json:"top_5_favourites"`
	CreatedAt     time.Time `json:"created_at"`
}

type profileResponse struct {
	Username            string         `json:"username"`
	AvatarURL           *string        `json:"avatarurl"`
	CreatedAt           time.Time      `json:"created_at"`
	ReviewCount         int64          `json:"review_count"`
	FavoriteMovieID     *int64         `json:"favorite_movie_id"`
	HighestRatedMovieID *int64         `json:"highest_rated_movie_id"`
	FavoriteMovie       *movieResponse `json:"favorite_movie"`
	HighestRatedMovie   *movieResponse `json:"highest_rated_movie"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.Users.List(r.Context())
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	s.respondData(w, http.StatusOK, items)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookupUser(w, r)
	if !ok {
		return
	}
	s.respondData(w, http.StatusOK, toUserResponse(user))
}

// handleProfile returns the user record together with statistics derived from
// stored reviews. Nothing here is cached; every request recomputes.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookupUser(w, r)
	if !ok {
		return
	}

	stats, err := s.repo.Reviews.Stats(r.Context(), user.ID)
	if err != nil {
		s.logger.Printf("profile stats error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to compute profile")
		return
	}

	resp := profileResponse{
		Username:            user.Username,
		AvatarURL:           user.AvatarURL,
		CreatedAt:           user.CreatedAt,
		ReviewCount:         stats.ReviewCount,
		FavoriteMovieID:     stats.FavoriteMovieID,
		HighestRatedMovieID: stats.HighestRatedMovieID,
	}
	if stats.FavoriteMovieID != nil {
		movies := s.fetchMovies(r.Context(), []int64{*stats.FavoriteMovieID})
		top := toMovieResponse(movies[*stats.FavoriteMovieID])
		resp.FavoriteMovie = top
		resp.HighestRatedMovie = top
	}
	s.respondData(w, http.StatusOK, resp)
}

func (s *Server) lookupUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	username := chi.URLParam(r, "username")
	if username == "" {
		s.respondError(w, http.StatusBadRequest, "missing username parameter")
		return domain.User{}, false
	}

	user, err := s.repo.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "user not found")
			return domain.User{}, false
		}
		s.logger.Printf("get user %q error: %v", username, err)
		s.respondError(w, http.StatusInternalServerError, "failed to fetch user")
		return domain.User{}, false
	}
	return user, true
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:            user.ID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		TopFavourites: user.TopFavourites,
		CreatedAt:     user.CreatedAt,
	}
}
