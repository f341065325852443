package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shelfwise/auth-service/internal/logging"
)

// NewRouter assembles the gin engine: recovery, request logging, tracing,
// the request authenticator, and the auth routes.
func NewRouter(authenticator *RequestAuthenticator, handler *AuthHandler, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(otelgin.Middleware("auth-service"))
	r.Use(authenticator.Handle)

	handler.Register(r.Group(AuthRoutePrefix))

	return r
}
