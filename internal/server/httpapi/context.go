// Package httpapi is the gin transport of the authentication service. It
// owns the per-request authenticator, the auth route handlers, the
// refresh-token cookie, and the single place where error kinds become HTTP
// statuses.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfwise/auth-service/internal/server/models"
)

const identityKey = "authIdentity"

// Identity is the authenticated principal attached to a request context by
// the RequestAuthenticator. It is created fresh per request and discarded
// when the request completes; nothing is shared between requests.
type Identity struct {
	User  *models.User
	Roles []string
}

// IdentityFrom returns the request's authenticated identity, if any.
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}

func setIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}
