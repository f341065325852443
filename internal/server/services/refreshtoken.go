// Package services contains the server-side authentication logic:
// RefreshTokenManager owns the refresh-token rotation state machine and
// AuthService orchestrates login, refresh, and logout on top of it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/dbx"
	"github.com/shelfwise/auth-service/internal/server/models"
	"github.com/shelfwise/auth-service/internal/server/repositories/repomanager"
)

// tokenValueBytes is the number of random bytes in an opaque token value;
// the stored string is twice as long in hex.
const tokenValueBytes = 32

// RefreshTokenManager creates, verifies, rotates, and revokes refresh
// tokens. Per user only one token is live at a time: creation always runs as
// delete-then-insert inside a transaction, and the store's unique index on
// the owner is the backstop when two rotations race. Expired rows are never
// swept in the background; they are detected at verify time or replaced by a
// later create.
type RefreshTokenManager struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	validity time.Duration
}

// NewRefreshTokenManager constructs a manager issuing tokens valid for the
// given duration.
func NewRefreshTokenManager(db *sql.DB, repos repomanager.RepositoryManager, validity time.Duration) *RefreshTokenManager {
	return &RefreshTokenManager{db: db, repos: repos, validity: validity}
}

// Create replaces any live refresh token of the user with a fresh one. The
// delete and insert run in a single transaction so no caller can observe a
// user with zero or two live tokens.
func (m *RefreshTokenManager) Create(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", common.ErrInvalidRequest)
	}

	var created *models.RefreshToken
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		created, txErr = m.createIn(ctx, tx, user.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Verify returns the stored token unchanged when it exists and is not yet
// expired. A token whose expiry is at or before now fails with
// common.ErrRefreshTokenExpired; an unknown value fails with
// common.ErrTokenNotFound.
func (m *RefreshTokenManager) Verify(ctx context.Context, value string) (*models.RefreshToken, error) {
	return m.verifyIn(ctx, m.db, value)
}

// Rotate atomically exchanges a live refresh token for a fresh one owned by
// the same user. Verification, deletion, and insertion happen inside one
// transaction, so two concurrent rotations for the same user are serialized
// by the store; both callers receive a token but only the last committed row
// survives, and the loser's token fails with common.ErrTokenNotFound on its
// next use.
func (m *RefreshTokenManager) Rotate(ctx context.Context, oldValue string) (*models.RefreshToken, error) {
	var created *models.RefreshToken
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		old, txErr := m.verifyIn(ctx, tx, oldValue)
		if txErr != nil {
			return txErr
		}
		created, txErr = m.createIn(ctx, tx, old.UserID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteForUser removes every refresh token of the user and returns how many
// rows were deleted. Deleting for a user without tokens returns 0, nil.
func (m *RefreshTokenManager) DeleteForUser(ctx context.Context, userID string) (int64, error) {
	count, err := m.repos.RefreshTokens(m.db).DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return count, nil
}

func (m *RefreshTokenManager) verifyIn(ctx context.Context, db dbx.DBTX, value string) (*models.RefreshToken, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: refresh token is required", common.ErrInvalidRequest)
	}

	token, err := m.repos.RefreshTokens(db).FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.ExpiredAt(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	return token, nil
}

func (m *RefreshTokenManager) createIn(ctx context.Context, db dbx.DBTX, userID string) (*models.RefreshToken, error) {
	repo := m.repos.RefreshTokens(db)

	if _, err := repo.DeleteAllForUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("error deleting refresh tokens: %w", err)
	}

	value, err := common.MakeRandHexString(tokenValueBytes)
	if err != nil {
		return nil, common.ErrInternal
	}

	now := time.Now()
	token := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     value,
		ExpiresAt: now.Add(m.validity),
		CreatedAt: now,
	}
	if err := repo.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}
	return token, nil
}
