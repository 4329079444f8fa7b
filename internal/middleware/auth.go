package middleware

import (
	"errors"
	"net/http"

	"noteboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set for authenticated requests.
const (
	ContextSession = "session"
	ContextToken   = "sessionToken"
)

// SessionAuth creates a Gin middleware that resolves the session cookie.
// Requests without a valid session are sent to the login page.
func SessionAuth(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		sess, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
			logger.Error("Failed to validate session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			c.Abort()
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextToken, token)

		c.Next()
	}
}
