package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/auth"
	"github.com/playmatatu/hoopshot/internal/config"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
	"github.com/playmatatu/hoopshot/internal/store"
)

const commandTimeout = 2 * time.Second

// errResponded tells command that the call already wrote the response.
var errResponded = errors.New("response written")

type dragRequest struct {
	Start *game.Vec2 `json:"start" binding:"required"`
	End   *game.Vec2 `json:"end" binding:"required"`
}

type clickRequest struct {
	Pointer *game.Vec2 `json:"pointer" binding:"required"`
}

// CreateSession starts a room and issues the token that drives it
func CreateSession(manager *room.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Variant    string `json:"variant"`
			PlayerName string `json:"player_name"`
		}
		// An empty body is fine: every field has a default.
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
				return
			}
		}
		if req.Variant == "" {
			req.Variant = cfg.DefaultVariant
		}
		name := sanitizeName(req.PlayerName)

		r, err := manager.Create(req.Variant, name)
		if err != nil {
			respondRoomError(c, err)
			return
		}

		ttl := time.Duration(cfg.SessionTokenHours) * time.Hour
		token, err := auth.IssueSessionToken(cfg.JWTSecret, r.ID, name, ttl)
		if err != nil {
			log.Printf("[API] Failed to sign token for %s: %v", r.ID, err)
			manager.Close(r.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("X-Session-ID", r.ID)
		c.JSON(http.StatusCreated, gin.H{
			"session_id": r.ID,
			"token":      token,
			"variant":    r.Variant,
			"expires_at": time.Now().Add(ttl).Format(time.RFC3339),
		})
	}
}

// GetSession returns the live snapshot, or the last cached one once the
// room is gone.
func GetSession(manager *room.Manager, cache *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
		defer cancel()

		r, err := manager.Get(id)
		if err == nil {
			snap, serr := r.Snapshot(ctx)
			if serr == nil {
				c.JSON(http.StatusOK, gin.H{"session_id": id, "live": true, "snapshot": snap})
				return
			}
			if !errors.Is(serr, room.ErrRoomClosed) {
				respondRoomError(c, serr)
				return
			}
		}

		if cache != nil {
			snap, cerr := cache.LoadSnapshot(ctx, id)
			if cerr == nil {
				c.JSON(http.StatusOK, gin.H{"session_id": id, "live": false, "snapshot": snap})
				return
			}
			if !errors.Is(cerr, store.ErrSnapshotNotFound) {
				log.Printf("[REDIS] Failed to load snapshot for %s: %v", id, cerr)
			}
		}
		respondRoomError(c, room.ErrRoomNotFound)
	}
}

// GetSessionAttempts lists the recorded attempts of a session
func GetSessionAttempts(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
			return
		}
		rows, err := store.SessionAttempts(c.Request.Context(), db, c.Param("id"))
		if err != nil {
			log.Printf("[DB] Attempts query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "attempts": rows})
	}
}

// command wraps a room call in the shared lookup, timeout and reply shape.
// Ignored inputs are not errors: the reply says accepted=false.
func command(manager *room.Manager, action string, call func(ctx context.Context, c *gin.Context, r *room.Room) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := manager.Get(c.Param("id"))
		if err != nil {
			respondRoomError(c, err)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
		defer cancel()

		accepted, err := call(ctx, c, r)
		if errors.Is(err, errResponded) {
			return
		}
		if err != nil {
			respondRoomError(c, err)
			return
		}
		snap, err := r.Snapshot(ctx)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": action, "accepted": accepted, "snapshot": snap})
	}
}

func StartSession(manager *room.Manager) gin.HandlerFunc {
	return command(manager, "start", func(ctx context.Context, _ *gin.Context, r *room.Room) (bool, error) {
		return r.Start(ctx)
	})
}

func RestartSession(manager *room.Manager) gin.HandlerFunc {
	return command(manager, "restart", func(ctx context.Context, _ *gin.Context, r *room.Room) (bool, error) {
		return r.Restart(ctx)
	})
}

func AimSession(manager *room.Manager) gin.HandlerFunc {
	return command(manager, "aim", func(ctx context.Context, c *gin.Context, r *room.Room) (bool, error) {
		var req dragRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start and end required"})
			return false, errResponded
		}
		return r.Aim(ctx, *req.Start, *req.End)
	})
}

func ShootSession(manager *room.Manager) gin.HandlerFunc {
	return command(manager, "shoot", func(ctx context.Context, c *gin.Context, r *room.Room) (bool, error) {
		var req dragRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start and end required"})
			return false, errResponded
		}
		return r.Shoot(ctx, *req.Start, *req.End)
	})
}

func ClickSession(manager *room.Manager) gin.HandlerFunc {
	return command(manager, "click", func(ctx context.Context, c *gin.Context, r *room.Room) (bool, error) {
		var req clickRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pointer required"})
			return false, errResponded
		}
		return r.Click(ctx, *req.Pointer)
	})
}
