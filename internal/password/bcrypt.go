// Package password implements the pluggable credential verifier over bcrypt
// hashes stored in the principal directory.
package password

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/server/repositories/users"
)

// BcryptVerifier checks submitted secrets against stored bcrypt hashes.
// An unknown email fails the same way as a wrong password so callers cannot
// probe which addresses exist.
type BcryptVerifier struct {
	users users.Repository
}

// NewBcryptVerifier constructs a verifier reading hashes through the
// principal directory.
func NewBcryptVerifier(users users.Repository) *BcryptVerifier {
	return &BcryptVerifier{users: users}
}

// Verify compares the secret with the stored hash for email. It fails with
// common.ErrInvalidCredentials on mismatch or unknown email.
func (v *BcryptVerifier) Verify(ctx context.Context, email, secret string) error {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidCredentials
		}
		return common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return common.ErrInvalidCredentials
	}
	return nil
}

// Hash produces a bcrypt hash for storage. It lives here so collaborators
// creating principals use the same cost as the verifier expects.
func Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
