package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/admin/login"

// SetCookie stores the session token in an HttpOnly, SameSite=Lax cookie.
func (m *Manager) SetCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(expires.Sub(m.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", m.secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// Identify attaches the identity to the request context when the session cookie is valid.
// Requests without a valid cookie pass through unchanged.
func (m *Manager) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c.Request.Context()); ok {
			c.Next()
			return
		}
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		id, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAdmin redirects to the login page unless Identify found a session.
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
