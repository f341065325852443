package models

import "time"

// RefreshToken is the server-side session record exchanged for new token
// pairs. Token is an opaque random value with a unique index in the store;
// at most one live row exists per user. CreatedAt and ExpiresAt are assigned
// explicitly at creation time, never by a storage-layer hook.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token is expired at the given instant.
// A token whose expiry equals now is already expired.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
