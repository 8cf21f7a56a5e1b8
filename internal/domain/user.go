package domain

import "time"

// User mirrors the row owned by the identity subsystem. This service only
// reads users; it never creates or mutates them.
type User struct {
	ID            int64
	Username      string
	AvatarURL     *string
	TopFavourites []int64
	CreatedAt     time.Time
}
