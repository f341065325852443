package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/server/models"
	"github.com/shelfwise/auth-service/internal/server/repositories/repomanager"
	"github.com/shelfwise/auth-service/internal/server/token"
)

// CredentialVerifier checks a submitted secret against the stored credential
// hash. Implementations fail with common.ErrInvalidCredentials on mismatch.
// The hashing algorithm is pluggable; see the password package for the
// bcrypt implementation.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, secret string) error
}

// TokenPair bundles a short-lived signed access token with the server-stored
// refresh token issued alongside it.
type TokenPair struct {
	AccessToken  string
	RefreshToken *models.RefreshToken
}

// AuthService orchestrates the authentication flows:
//   - Login: verify credentials and mint both tokens
//   - Refresh: rotate the refresh token and mint a new access token
//   - Logout: revoke all refresh tokens of a principal
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	codec         *token.Codec
	verifier      CredentialVerifier
	refreshTokens *RefreshTokenManager
	accessTTL     time.Duration
	tracer        trace.Tracer
}

// NewAuthService constructs the coordinator.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, codec *token.Codec,
	verifier CredentialVerifier, refreshTokens *RefreshTokenManager, accessTTL time.Duration) *AuthService {
	return &AuthService{
		db:            db,
		repos:         repos,
		codec:         codec,
		verifier:      verifier,
		refreshTokens: refreshTokens,
		accessTTL:     accessTTL,
		tracer:        otel.Tracer("auth-service"),
	}
}

// Login verifies the credentials and, on success, returns a fresh token
// pair. A principal that vanishes from the directory between the credential
// check and the lookup fails with common.ErrPrincipalNotFound.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if err := s.verifier.Verify(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error verifying credentials: %w", err)
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a live refresh token for a new token pair. The owning
// principal is derived solely from the refresh token; no access token is
// consulted. A disabled owner fails with common.ErrAccountDisabled before
// any rotation takes place.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	current, err := s.refreshTokens.Verify(ctx, presented)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if user.Disabled() {
		return nil, common.ErrAccountDisabled
	}

	rotated, err := s.refreshTokens.Rotate(ctx, presented)
	if err != nil {
		return nil, err
	}

	access, err := s.mintAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: rotated}, nil
}

// Logout revokes every refresh token of the principal and returns the number
// of tokens removed. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	return s.refreshTokens.DeleteForUser(ctx, userID)
}

// LogoutByRefreshToken identifies the principal by the presented refresh
// token and revokes all of their refresh tokens. An unknown or already
// revoked token is a no-op, so repeated logouts succeed with a zero count.
func (s *AuthService) LogoutByRefreshToken(ctx context.Context, presented string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.LogoutByRefreshToken")
	defer span.End()

	if presented == "" {
		return 0, nil
	}

	current, err := s.repos.RefreshTokens(s.db).FindByValue(ctx, presented)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("error loading refresh token: %w", err)
	}

	return s.refreshTokens.DeleteForUser(ctx, current.UserID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.mintAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshTokens.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) mintAccessToken(user *models.User) (string, error) {
	access, err := s.codec.Encode(user.Email, map[string]any{"role": user.Role}, s.accessTTL)
	if err != nil {
		return "", common.ErrInternal
	}
	return access, nil
}
