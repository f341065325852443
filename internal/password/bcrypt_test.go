package password

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/server/models"
)

type fakeDirectory struct {
	user *models.User
	err  error
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.GetByEmail(ctx, id)
}

func TestVerify_Success(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)

	v := NewBcryptVerifier(&fakeDirectory{user: &models.User{Email: "a@x.com", PasswordHash: hash}})
	assert.NoError(t, v.Verify(context.Background(), "a@x.com", "correct horse"))
}

func TestVerify_WrongPassword(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)

	v := NewBcryptVerifier(&fakeDirectory{user: &models.User{Email: "a@x.com", PasswordHash: hash}})
	err = v.Verify(context.Background(), "a@x.com", "battery staple")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestVerify_UnknownEmailIndistinguishable(t *testing.T) {
	v := NewBcryptVerifier(&fakeDirectory{err: common.ErrNotFound})
	err := v.Verify(context.Background(), "ghost@x.com", "anything")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestVerify_DirectoryFailure(t *testing.T) {
	v := NewBcryptVerifier(&fakeDirectory{err: errors.New("db down")})
	err := v.Verify(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrInternal)
}
