package moviedata

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestHTTPClientSmoke verifies the client can parse at least one record from
// a live provider (or the moviedata-mock).
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("MOVIEDATA_URL")
	if baseURL == "" {
		t.Skip("MOVIEDATA_URL not provided")
	}
	apiKey := os.Getenv("MOVIEDATA_API_KEY")
	client, err := NewHTTPClient(baseURL, apiKey, 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	movie, err := client.Fetch(ctx, 27205)
	if err != nil {
		t.Fatalf("fetch movie: %v", err)
	}
	if movie.Title == "" {
		t.Fatalf("unexpected movie payload: %+v", movie)
	}
}
