package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/server/models"
	"github.com/shelfwise/auth-service/internal/server/token"
)

var authTestSecret = []byte("0123456789abcdef0123456789abcdef")

type authFixture struct {
	service *AuthService
	codec   *token.Codec
	store   *fakeTokenStore
	users   *fakeUserDirectory
}

func newAuthFixture(t *testing.T, refreshValidity time.Duration, records ...*models.User) *authFixture {
	t.Helper()

	codec, err := token.NewCodec(authTestSecret)
	require.NoError(t, err)

	store := newFakeTokenStore()
	directory := newFakeUserDirectory(records...)
	repos := &fakeRepoManager{users: directory, tokens: store}
	db := newTxDB(t, 64)

	passwords := map[string]string{}
	for _, u := range records {
		passwords[u.Email] = "correct-password"
	}

	manager := NewRefreshTokenManager(db, repos, refreshValidity)
	service := NewAuthService(db, repos, codec, &fakeVerifier{passwords: passwords}, manager, 15*time.Minute)

	return &authFixture{service: service, codec: codec, store: store, users: directory}
}

func TestLogin_Success(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, 168*time.Hour, user)

	before := time.Now()
	pair, err := f.service.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)

	assert.Len(t, strings.Split(pair.AccessToken, "."), 3)

	subject, err := f.codec.Subject(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, subject)

	claims, err := f.codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user", claims["role"])

	require.NotNil(t, pair.RefreshToken)
	assert.Equal(t, user.ID, pair.RefreshToken.UserID)
	assert.WithinDuration(t, before.Add(168*time.Hour), pair.RefreshToken.ExpiresAt, 2*time.Second)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)

	_, err := f.service.Login(context.Background(), user.Email, "wrong-password")
	assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	assert.Empty(t, f.store.tokensFor(user.ID))
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t, time.Hour)

	_, err := f.service.Login(context.Background(), "nobody@example.com", "whatever")
	assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
}

func TestLogin_PrincipalGoneAfterVerify(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)

	// Credentials check passes but the directory no longer has the record.
	delete(f.users.byEmail, user.Email)
	f.service.verifier = &fakeVerifier{passwords: map[string]string{user.Email: "correct-password"}}

	_, err := f.service.Login(context.Background(), user.Email, "correct-password")
	assert.True(t, errors.Is(err, common.ErrPrincipalNotFound))
}

func TestLogin_ReplacesEarlierSession(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)

	first, err := f.service.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)
	second, err := f.service.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken.Token, second.RefreshToken.Token)
	assert.Len(t, f.store.tokensFor(user.ID), 1)
}

func TestRefresh_Success(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)

	pair, err := f.service.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(context.Background(), pair.RefreshToken.Token)
	require.NoError(t, err)

	subject, err := f.codec.Subject(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, subject)

	assert.NotEqual(t, pair.RefreshToken.Token, refreshed.RefreshToken.Token)

	// The presented value is single-use.
	_, err = f.service.Refresh(context.Background(), pair.RefreshToken.Token)
	assert.True(t, errors.Is(err, common.ErrTokenNotFound))
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newAuthFixture(t, time.Hour)

	_, err := f.service.Refresh(context.Background(), "never-issued")
	assert.True(t, errors.Is(err, common.ErrTokenNotFound))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)
	f.store.seed(liveToken(user.ID, "stale-value", -time.Minute))

	_, err := f.service.Refresh(context.Background(), "stale-value")
	assert.True(t, errors.Is(err, common.ErrRefreshTokenExpired))
}

func TestRefresh_DisabledAccount(t *testing.T) {
	user := testUser("user-1")
	user.Enabled = false
	f := newAuthFixture(t, time.Hour, user)
	f.store.seed(liveToken(user.ID, "live-value", time.Hour))

	_, err := f.service.Refresh(context.Background(), "live-value")
	assert.True(t, errors.Is(err, common.ErrAccountDisabled))

	// The rejected attempt must not consume the token.
	remaining := f.store.tokensFor(user.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live-value", remaining[0].Token)
}

func TestLogout_RemovesOnlyOwnTokens(t *testing.T) {
	alice := testUser("user-1")
	bob := testUser("user-2")
	f := newAuthFixture(t, time.Hour, alice, bob)
	f.store.seed(liveToken(alice.ID, "alice-value", time.Hour))
	f.store.seed(liveToken(bob.ID, "bob-value", time.Hour))

	count, err := f.service.Logout(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Empty(t, f.store.tokensFor(alice.ID))
	assert.Len(t, f.store.tokensFor(bob.ID), 1)

	count, err = f.service.Logout(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLogoutByRefreshToken(t *testing.T) {
	user := testUser("user-1")
	f := newAuthFixture(t, time.Hour, user)
	f.store.seed(liveToken(user.ID, "live-value", time.Hour))

	count, err := f.service.LogoutByRefreshToken(context.Background(), "live-value")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, f.store.tokensFor(user.ID))

	// Unknown or already revoked values are a no-op.
	count, err = f.service.LogoutByRefreshToken(context.Background(), "live-value")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = f.service.LogoutByRefreshToken(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
