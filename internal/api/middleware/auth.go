package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

const (
	AccessTokenCookie = "access_token"
	identityKey       = "identity"
)

// Identity resolves the access token cookie on every request. It never
// rejects a request; handlers decide what an anonymous caller may do.
func Identity(resolver *services.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(AccessTokenCookie)
		identity := resolver.Resolve(token)

		if identity.IsAnonymous() && token != "" {
			logger.WithField("reason", identity.Reason).Debug("access token ignored")
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the caller stored by Identity, or an anonymous
// identity when the middleware did not run.
func CurrentIdentity(c *gin.Context) services.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(services.Identity); ok {
			return identity
		}
	}
	return services.AnonymousIdentity("no token")
}

// RequireLogin sends anonymous callers to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).IsAnonymous() {
			AddFlash(c, "Please log in to continue.", FlashWarning)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
