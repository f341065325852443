// Package token implements the stateless access-token codec: HS256-signed
// JWTs carrying the principal's email as subject. The codec holds no state
// beyond the signing secret and is safe for concurrent use.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shelfwise/auth-service/internal/common"
)

// MinSecretLen is the minimum signing-secret length in bytes. HS256 requires
// a key at least as long as the hash output.
const MinSecretLen = 32

// Codec signs and verifies access tokens.
type Codec struct {
	secret []byte
}

// NewCodec validates the secret and returns a Codec.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	return &Codec{secret: secret}, nil
}

// Encode produces a compact signed token for the subject with issued-at now
// and expiry now+ttl. Extra claims are merged in; registered claim names in
// extra are ignored in favor of the codec's own values.
func (c *Codec) Encode(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies a token, returning its claims. Expired tokens
// fail with common.ErrTokenExpired; any other parse or signature failure
// yields common.ErrInvalidToken.
func (c *Codec) Decode(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !tok.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// DecodeIgnoringExpiry returns the subject of a token whose signature is
// valid even when the token is expired. Any other failure yields
// common.ErrInvalidToken.
func (c *Codec) DecodeIgnoringExpiry(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil {
		return "", common.ErrInvalidToken
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", common.ErrInvalidToken
	}
	return subject, nil
}

// Subject decodes the token and returns its subject claim.
func (c *Codec) Subject(tokenStr string) (string, error) {
	claims, err := c.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", common.ErrInvalidToken
	}
	return subject, nil
}

// IsValid reports whether the token is unexpired, correctly signed, and
// issued for the expected subject.
func (c *Codec) IsValid(tokenStr, expectedSubject string) bool {
	subject, err := c.Subject(tokenStr)
	if err != nil {
		return false
	}
	return subject == expectedSubject
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.secret, nil
}
