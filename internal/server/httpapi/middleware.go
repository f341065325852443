package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/auth-service/internal/logging"
	"github.com/shelfwise/auth-service/internal/server/repositories/users"
	"github.com/shelfwise/auth-service/internal/server/token"
)

// AuthRoutePrefix is the authentication surface's own route prefix. Requests
// under it bypass the authenticator entirely.
const AuthRoutePrefix = "/api/auth"

const bearerPrefix = "Bearer "

// RequestAuthenticator turns an inbound bearer token into an authenticated
// identity on the request context. It never aborts the pipeline: a missing,
// malformed, or expired token leaves the request unauthenticated and
// rejection is downstream authorization's job.
type RequestAuthenticator struct {
	codec  *token.Codec
	users  users.Repository
	logger logging.Logger
}

// NewRequestAuthenticator constructs the middleware.
func NewRequestAuthenticator(codec *token.Codec, users users.Repository, logger logging.Logger) *RequestAuthenticator {
	return &RequestAuthenticator{codec: codec, users: users, logger: logger.With("module", "request_authenticator")}
}

// Handle runs once per request. Idempotent: a second pass sees the existing
// identity and does nothing.
func (a *RequestAuthenticator) Handle(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, AuthRoutePrefix) {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		c.Next()
		return
	}
	raw := header[len(bearerPrefix):]

	subject, err := a.codec.Subject(raw)
	if err != nil {
		// Bad or expired access token: continue unauthenticated.
		a.logger.Debug(c.Request.Context(), "access token rejected", "err", err.Error())
		c.Next()
		return
	}

	if _, ok := IdentityFrom(c); ok {
		c.Next()
		return
	}

	user, err := a.users.GetByEmail(c.Request.Context(), subject)
	if err != nil {
		a.logger.Debug(c.Request.Context(), "token subject not in directory", "subject", subject)
		c.Next()
		return
	}

	if a.codec.IsValid(raw, user.Email) {
		setIdentity(c, &Identity{User: user, Roles: user.Roles()})
	}

	c.Next()
}

// RequestLogger logs one line per request with method, path, status, and
// duration.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	logger = logger.With("module", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
