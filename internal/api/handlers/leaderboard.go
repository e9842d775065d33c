package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/store"
)

// GetLeaderboard returns the best finished sessions
func GetLeaderboard(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard unavailable"})
			return
		}
		limit := store.ClampLimit(queryInt(c, "limit", 10))
		entries, err := store.Leaderboard(c.Request.Context(), db, c.Query("variant"), limit)
		if err != nil {
			log.Printf("[DB] Leaderboard query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "limit": limit})
	}
}
