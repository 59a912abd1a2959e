package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/services"
)

const currentUserKey = "currentUser"

// Authenticate is the per-request authorization guard: it extracts the
// bearer token from the accessToken cookie or the Authorization header,
// verifies it and resolves the account. The guard holds no state between
// requests; identity is attached to the Gin context for downstream
// handlers.
func Authenticate(tokens services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "Unauthorized request")
			return
		}

		userID, err := tokens.VerifyAccessToken(token)
		if err != nil {
			if err == services.ErrTokenExpired {
				abortUnauthorized(c, "Access token has expired")
				return
			}
			abortUnauthorized(c, "Invalid access token")
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			abortUnauthorized(c, "Invalid access token")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the account the guard attached to the request.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
