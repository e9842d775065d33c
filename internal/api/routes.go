package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/api/handlers"
	"github.com/playmatatu/hoopshot/internal/config"
	"github.com/playmatatu/hoopshot/internal/middleware"
	"github.com/playmatatu/hoopshot/internal/room"
	"github.com/playmatatu/hoopshot/internal/store"
	"github.com/playmatatu/hoopshot/internal/ws"
)

// SetupRoutes configures all API routes. db and cache may be nil; the
// routes that need them then answer 503.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cache *store.Cache, manager *room.Manager, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(manager))
		v1.GET("/variants", handlers.ListVariants(manager, cfg.DefaultVariant))
		v1.GET("/leaderboard", handlers.GetLeaderboard(db))

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(manager, cfg))
			sessions.GET("/:id", handlers.GetSession(manager, cache))
			sessions.GET("/:id/attempts", handlers.GetSessionAttempts(db))
			sessions.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), hub.Handler())

			play := sessions.Group("/:id", handlers.SessionAuthMiddleware(cfg))
			{
				play.POST("/start", handlers.StartSession(manager))
				play.POST("/aim", handlers.AimSession(manager))
				play.POST("/shoot", handlers.ShootSession(manager))
				play.POST("/click", handlers.ClickSession(manager))
				play.POST("/restart", handlers.RestartSession(manager))
			}
		}

		adminGroup := v1.Group("/admin", handlers.AdminMiddleware(db))
		{
			adminGroup.GET("/sessions", handlers.AdminListSessions(manager))
			adminGroup.GET("/sessions/history", handlers.AdminSessionHistory(db))
			adminGroup.DELETE("/sessions/:id", handlers.AdminCloseSession(manager, db))
			adminGroup.GET("/audit", handlers.AdminAuditLogs(db))
		}
	}
}
