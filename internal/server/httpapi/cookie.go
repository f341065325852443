package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/auth-service/internal/server/models"
)

const (
	refreshCookieName   = "refreshToken"
	refreshCookiePath   = "/api/auth"
	refreshCookieMaxAge = 7 * 24 * 60 * 60
)

// setRefreshCookie attaches the refresh token to the response as an HttpOnly
// cookie scoped to the auth endpoints. The browser never exposes it to
// scripts; it travels only on refresh and logout calls.
func setRefreshCookie(c *gin.Context, rt *models.RefreshToken, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, rt.Token, refreshCookieMaxAge, refreshCookiePath, "", secure, true)
}

// clearRefreshCookie expires the refresh cookie on the client.
func clearRefreshCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", secure, true)
}

// refreshCookieValue reads the presented refresh token, empty if absent.
func refreshCookieValue(c *gin.Context) string {
	value, err := c.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}
	return value
}
