package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/admin"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
	"github.com/playmatatu/hoopshot/internal/store"
)

// AdminMiddleware checks the X-Admin-Name / X-Admin-Token pair against the
// bcrypt hash in admin_accounts and sets admin_name in context.
func AdminMiddleware(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader("X-Admin-Name"))
		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if name == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin credentials required"})
			return
		}
		if db == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin unavailable"})
			return
		}

		if _, err := admin.ValidateAdminNameAndToken(db, name, token); err != nil {
			if !errors.Is(err, admin.ErrAdminNotFound) && !errors.Is(err, admin.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			admin.LogAdminAction(db, name, c.ClientIP(), c.FullPath(), "auth", nil, false)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin credentials"})
			return
		}

		c.Set("admin_name", name)
		c.Next()
	}
}

// AdminListSessions lists the live rooms on this instance
func AdminListSessions(manager *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := manager.List(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"sessions": infos, "count": len(infos)})
	}
}

// AdminSessionHistory lists recorded sessions from postgres
func AdminSessionHistory(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := c.Query("state")
		if state != "" && !knownState(state) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown state"})
			return
		}
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
			return
		}
		limit := store.ClampLimit(queryInt(c, "limit", 50))
		offset := queryInt(c, "offset", 0)
		if offset < 0 {
			offset = 0
		}
		rows, err := store.RecentSessions(c.Request.Context(), db, state, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Session history query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": rows, "limit": limit, "offset": offset})
	}
}

func knownState(s string) bool {
	switch game.State(s) {
	case game.StateIdle, game.StateAiming, game.StateShooting, game.StateScored, game.StateMissed, game.StateGameOver:
		return true
	}
	return false
}

// AdminCloseSession tears a live room down
func AdminCloseSession(manager *room.Manager, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		adminName := c.GetString("admin_name")

		err := manager.Close(id)
		if db != nil {
			admin.LogAdminAction(db, adminName, c.ClientIP(), c.FullPath(), "close_session", map[string]interface{}{"session_id": id}, err == nil)
		}
		if err != nil {
			respondRoomError(c, err)
			return
		}

		log.Printf("[ADMIN] %s closed session %s", adminName, id)
		c.JSON(http.StatusOK, gin.H{"closed": id})
	}
}

// AdminAuditLogs returns recent admin actions
func AdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 50)
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		offset := queryInt(c, "offset", 0)
		if offset < 0 {
			offset = 0
		}
		logs, err := admin.GetAdminAuditLogs(db, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Audit query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
