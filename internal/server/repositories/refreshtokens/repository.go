// Package refreshtokens persists refresh tokens in PostgreSQL. A unique
// index on user_id keeps at most one live row per principal; a unique index
// on token guarantees values stay unambiguous lookup keys.
package refreshtokens

import (
	"context"

	"github.com/shelfwise/auth-service/internal/server/models"
)

// Repository defines operations for persisting, retrieving, and revoking
// refresh tokens. All timestamps on the record are assigned by the caller;
// the store never fills them in.
type Repository interface {
	// Save inserts a fully populated refresh-token row.
	Save(ctx context.Context, token *models.RefreshToken) error

	// FindByValue looks up a refresh token by its opaque value. Returns
	// common.ErrNotFound when the token is absent.
	FindByValue(ctx context.Context, value string) (*models.RefreshToken, error)

	// DeleteAllForUser removes every refresh token owned by userID and
	// returns the number of rows removed. Deleting for a user with no
	// tokens is not an error.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}
