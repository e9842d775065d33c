package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/hoopshot/internal/auth"
	"github.com/playmatatu/hoopshot/internal/config"
)

// SessionAuthMiddleware validates the bearer JWT against the :id route
// parameter and sets player_name in context.
func SessionAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.Authorize(cfg.JWTSecret, token, c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("player_name", claims.PlayerName)
		c.Next()
	}
}
