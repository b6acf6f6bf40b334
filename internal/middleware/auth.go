package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"hyroxbox-directory/internal/auth"
)

// SessionCookie holds the session token set by /auth/login
const SessionCookie = "hyroxbox_session"

// IdentityKey is the gin context key holding the *auth.Identity of an admin request
const IdentityKey = "identity"

// Authenticator verifies admin credentials
type Authenticator interface {
	Authenticate(token string) (*auth.Identity, error)
	AuthenticateBasic(username, password string) (*auth.Identity, error)
}

// AdminAuth guards admin routes. A request is admitted with a bearer token,
// the session cookie or HTTP Basic credentials of the bootstrap admin.
// API requests without valid credentials get 401; page requests are
// redirected to the login page.
func AdminAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := authenticate(c, authenticator)
		if identity == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.Header("WWW-Authenticate", `Basic realm="hyroxbox admin"`)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			c.Redirect(http.StatusSeeOther, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

func authenticate(c *gin.Context, authenticator Authenticator) *auth.Identity {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if identity, err := authenticator.Authenticate(strings.TrimPrefix(header, "Bearer ")); err == nil {
			return identity
		}
		return nil
	}

	if username, password, ok := c.Request.BasicAuth(); ok {
		if identity, err := authenticator.AuthenticateBasic(username, password); err == nil {
			return identity
		}
		return nil
	}

	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		if identity, err := authenticator.Authenticate(token); err == nil {
			return identity
		}
	}

	return nil
}
