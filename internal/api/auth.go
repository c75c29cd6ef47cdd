package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/internal/middleware"
	"github.com/recipe-scribe/backend/internal/service"
)

// AuthHandler handles login, logout and auth-status requests.
type AuthHandler struct {
	sessions service.ISessionService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(sessions service.ISessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the application password and issues a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	cookie, err := h.sessions.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed"})
		return
	}

	c.SetCookie(middleware.SessionCookie, cookie, int(service.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Authentication successful"})
}

// Logout destroys the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.sessions.Logout(c.Request.Context(), cookie); err != nil {
			h.logger.Warn("session destroy failed", zap.Error(err))
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// AuthStatus reports whether the caller holds an authenticated session.
func (h *AuthHandler) AuthStatus(c *gin.Context) {
	authenticated := false
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		authenticated = h.sessions.IsAuthenticated(c.Request.Context(), cookie)
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}
