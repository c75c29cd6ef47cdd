package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipe-scribe/backend/internal/service"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session_token"

// RequireAuth aborts with 401 unless the request carries a live authenticated
// session. Handlers behind it never run for anonymous callers.
func RequireAuth(sessions service.ISessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || !sessions.IsAuthenticated(c.Request.Context(), cookie) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
