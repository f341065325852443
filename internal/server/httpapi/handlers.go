package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/auth-service/internal/common"
	"github.com/shelfwise/auth-service/internal/logging"
	"github.com/shelfwise/auth-service/internal/server/services"
)

// Authenticator is the slice of the auth service the HTTP handlers need.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, presented string) (*services.TokenPair, error)
	LogoutByRefreshToken(ctx context.Context, presented string) (int64, error)
}

// AuthHandler exposes login, refresh, and logout over HTTP. The refresh
// token travels only via an HttpOnly cookie; the access token in the JSON
// body.
type AuthHandler struct {
	auth          Authenticator
	logger        logging.Logger
	secureCookies bool
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth Authenticator, logger logging.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.With("module", "auth_handler"), secureCookies: secureCookies}
}

// Register mounts the auth routes onto the group.
func (h *AuthHandler) Register(g *gin.RouterGroup) {
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials, sets the refresh cookie, and returns the
// access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrInvalidRequest)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug(c.Request.Context(), "login rejected", "email", req.Email, "err", err.Error())
		abortWithError(c, err)
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"jwt": pair.AccessToken})
}

// Refresh rotates the refresh token presented in the cookie and returns a
// new access token. A request without the cookie fails as if the token were
// unknown.
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented := refreshCookieValue(c)
	if presented == "" {
		abortWithError(c, common.ErrTokenNotFound)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), presented)
	if err != nil {
		h.logger.Debug(c.Request.Context(), "refresh rejected", "err", err.Error())
		abortWithError(c, err)
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"jwt": pair.AccessToken})
}

// Logout revokes the caller's refresh tokens and clears the cookie.
// Idempotent: logging out without a live session still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	deleted, err := h.auth.LogoutByRefreshToken(c.Request.Context(), refreshCookieValue(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	clearRefreshCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
