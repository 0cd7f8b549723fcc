package middleware

import (
	"errors"
	"net/http"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	TokenHeader = "x-auth-token"

	MsgNoToken      = "No auth token.  Access Denied."
	MsgInvalidToken = "Token is not valid"
)

// AuthMiddleware verifies the x-auth-token header and stores the user ID under AuthUserKey
func AuthMiddleware(jwtUtil *utils.JWTUtil, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwtUtil.ValidateToken(c.GetHeader(TokenHeader))
		if err != nil {
			if errors.Is(err, utils.ErrTokenMissing) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": MsgNoToken})
				return
			}
			log.Warn(c.Request.Context(), "rejected auth token",
				"path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": MsgInvalidToken})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.User.ID)

		c.Next()
	}
}

// AuthUserID returns the user ID stored by AuthMiddleware
func AuthUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
