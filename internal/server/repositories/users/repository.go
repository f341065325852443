// Package users declares the principal-directory contract: read-only access
// to user records by login handle or id. The core never writes users.
package users

import (
	"context"

	"github.com/shelfwise/auth-service/internal/server/models"
)

// Repository looks up principals. Implementations return common.ErrNotFound
// when no matching record exists.
type Repository interface {
	// GetByEmail resolves a principal by its unique login handle.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID resolves a principal by primary key.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
