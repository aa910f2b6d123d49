package middleware

import (
	"strings"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalJWTAuth attaches the identity when a valid token is present but
// never blocks the request.
func OptionalJWTAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwt.ParseToken(tokenStr, cfg.Secret)
			if err == nil {
				c.Set("user_id", claims.UserID)
			}
		}
		c.Next()
	}
}
