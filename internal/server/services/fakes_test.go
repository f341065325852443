package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/dbx"
	"github.com/shelfwise/auth-service/internal/server/models"
	"github.com/shelfwise/auth-service/internal/server/repositories/refreshtokens"
	"github.com/shelfwise/auth-service/internal/server/repositories/users"
)

// fakeTokenStore is an in-memory refreshtokens.Repository. Like the real
// store it enforces at most one row per user.
type fakeTokenStore struct {
	mu      sync.Mutex
	byValue map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byValue: map[string]*models.RefreshToken{}}
}

func (s *fakeTokenStore) Save(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byValue {
		if existing.UserID == token.UserID {
			return errors.New("unique violation: refresh_tokens_user_id_key")
		}
	}
	cp := *token
	s.byValue[token.Token] = &cp
	return nil
}

func (s *fakeTokenStore) FindByValue(_ context.Context, value string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.byValue[value]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *token
	return &cp, nil
}

func (s *fakeTokenStore) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for value, token := range s.byValue {
		if token.UserID == userID {
			delete(s.byValue, value)
			count++
		}
	}
	return count, nil
}

func (s *fakeTokenStore) tokensFor(userID string) []*models.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.RefreshToken
	for _, token := range s.byValue {
		if token.UserID == userID {
			cp := *token
			out = append(out, &cp)
		}
	}
	return out
}

func (s *fakeTokenStore) seed(token *models.RefreshToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *token
	s.byValue[token.Token] = &cp
}

// fakeUserDirectory is an in-memory users.Repository.
type fakeUserDirectory struct {
	byEmail map[string]*models.User
}

func newFakeUserDirectory(records ...*models.User) *fakeUserDirectory {
	d := &fakeUserDirectory{byEmail: map[string]*models.User{}}
	for _, u := range records {
		d.byEmail[u.Email] = u
	}
	return d
}

func (d *fakeUserDirectory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := d.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (d *fakeUserDirectory) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range d.byEmail {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

// fakeRepoManager hands out the in-memory repositories regardless of the
// DBTX, so transactional code paths run against the same state.
type fakeRepoManager struct {
	users  *fakeUserDirectory
	tokens *fakeTokenStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }

// fakeVerifier checks submitted secrets against a plaintext map.
type fakeVerifier struct {
	passwords map[string]string
}

func (v *fakeVerifier) Verify(_ context.Context, email, secret string) error {
	stored, ok := v.passwords[email]
	if !ok || stored != secret {
		return common.ErrInvalidCredentials
	}
	return nil
}

// newTxDB returns a sqlmock database that tolerates any number of
// transactions up to txBudget, in any order. Callers asserting SQL traffic
// should use explicit expectations instead.
func newTxDB(t *testing.T, txBudget int) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < txBudget; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}
