package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/questlog/questlog-api/internal/constants"
	apierrors "github.com/questlog/questlog-api/internal/errors"
	"github.com/questlog/questlog-api/internal/services"
)

// RequireAuth resolves the caller identity from the Authorization header.
// Expired tokens are reported with a distinct code so clients know to run
// the refresh flow. The gate never touches the task store.
func RequireAuth(authService *services.AuthService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			logger.Warn("missing authorization header", "path", c.Request.URL.Path)
			apierrors.Unauthorized(c, "Authorization header not found")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Warn("malformed authorization header", "path", c.Request.URL.Path)
			apierrors.MalformedAuth(c, "Authorization format is invalid")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.Verify(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				logger.Warn("expired access token", "path", c.Request.URL.Path)
				apierrors.TokenExpired(c, "Access token expired, please refresh")
			} else {
				logger.Warn("invalid access token", "path", c.Request.URL.Path)
				apierrors.Unauthorized(c, "Invalid access token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}
