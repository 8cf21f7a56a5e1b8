package httpserver

import (
	"testing"

	"github.com/reelshelf/reelshelf/internal/config"
)

func TestVerifyBearer(t *testing.T) {
	srv := &Server{cfg: config.Config{AdminToken: "secret"}}
	cases := []struct {
		header  string
		allowed bool
	}{
		{"Bearer secret", true},
		{"Bearer secret ", true},
		{"Bearer other", false},
		{"secret", false},
		{"Bearer ", false},
		{"", false},
	}
	for _, c := range cases {
		if srv.verifyBearer(c.header) != c.allowed {
			t.Fatalf("verifyBearer(%q) expected %v", c.header, c.allowed)
		}
	}
}
