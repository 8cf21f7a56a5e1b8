package domain

import "testing"

func TestParseWatchlistStatus(t *testing.T) {
	valid := []string{"Completed", "Want to Watch", "Now Watching"}
	for _, raw := range valid {
		status, ok := ParseWatchlistStatus(raw)
		if !ok || string(status) != raw {
			t.Fatalf("ParseWatchlistStatus(%q) = (%q, %v), want valid", raw, status, ok)
		}
	}

	invalid := []string{"", "completed", "Now watching", "Dropped", "Want To Watch"}
	for _, raw := range invalid {
		if _, ok := ParseWatchlistStatus(raw); ok {
			t.Fatalf("ParseWatchlistStatus(%q) should be rejected", raw)
		}
	}
}
