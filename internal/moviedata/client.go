package moviedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reelshelf/reelshelf/internal/domain"
)

// ErrNotFound is returned when the provider has no movie with the given id.
var ErrNotFound = errors.New("moviedata: not found")

// Client defines the contract for querying the external movie data provider.
type Client interface {
	Fetch(ctx context.Context, movieID int64) (*domain.Movie, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed movie data client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse movie data url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Fetch retrieves movie metadata by id.
func (c *HTTPClient) Fetch(ctx context.Context, movieID int64) (*domain.Movie, error) {
	rel := &url.URL{Path: "/movies/" + strconv.FormatInt(movieID, 10)}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode movie data response: %w", err)
		}
		return convertToMovie(movieID, payload), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Printf("moviedata: unexpected status %d for movie %d", resp.StatusCode, movieID)
		return nil, fmt.Errorf("moviedata: upstream returned %d", resp.StatusCode)
	}
}

type apiResponse struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	ReleaseDate *string  `json:"release_date"`
	VoteAverage *float64 `json:"vote_average"`
	Genres      []string `json:"genres"`
}

func convertToMovie(movieID int64, payload apiResponse) *domain.Movie {
	movie := &domain.Movie{
		ID:     movieID,
		Genres: payload.Genres,
	}
	if payload.ID != nil {
		movie.ID = *payload.ID
	}
	if payload.Title != nil {
		movie.Title = *payload.Title
	}
	if payload.Overview != nil {
		movie.Overview = *payload.Overview
	}
	movie.PosterPath = payload.PosterPath
	movie.ReleaseDate = payload.ReleaseDate
	if payload.VoteAverage != nil {
		movie.VoteAverage = *payload.VoteAverage
	}
	if movie.Genres == nil {
		movie.Genres = []string{}
	}
	return movie
}
