package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/playmatatu/hoopshot/internal/api"
	"github.com/playmatatu/hoopshot/internal/config"
	"github.com/playmatatu/hoopshot/internal/database"
	"github.com/playmatatu/hoopshot/internal/migrations"
	"github.com/playmatatu/hoopshot/internal/redis"
	"github.com/playmatatu/hoopshot/internal/room"
	"github.com/playmatatu/hoopshot/internal/store"
	"github.com/playmatatu/hoopshot/internal/ws"
)

func main() {
	// Initialize configuration (.env is read by config.Load)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presets, err := config.LoadVariants(cfg.VariantsFile)
	if err != nil {
		log.Fatalf("Failed to load variants: %v", err)
	}
	if _, ok := presets[cfg.DefaultVariant]; !ok {
		log.Fatalf("DEFAULT_VARIANT %q is not a known variant", cfg.DefaultVariant)
	}

	// Postgres and redis are optional: without them rooms still play, they
	// just are not recorded.
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Println("[MIGRATE] Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Postgres unavailable, persistence disabled: %v", err)
		} else {
			defer db.Close()
		}
	}

	var rdb *goredis.Client
	var cache *store.Cache
	if cfg.RedisURL != "" {
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("[REDIS] Redis unavailable, snapshot cache disabled: %v", err)
		} else {
			defer rdb.Close()
			cache = store.NewCache(rdb, time.Duration(cfg.SnapshotTTLMins)*time.Minute)
		}
	}

	// The recorder outlives ctx so it can store the snapshots rooms report
	// while shutting down.
	recCtx, stopRecorder := context.WithCancel(context.Background())
	recorder := store.NewRecorder(db, cache, cfg.RecorderQueueSize)
	recorder.Start(recCtx)

	hub := ws.NewHub(nil, cfg.JWTSecret)
	hub.StartEventSubscriber(ctx, cache)
	go hub.Run(ctx)

	manager := room.NewManager(presets, room.Observers{hub, recorder}, room.Options{
		TickHz:         cfg.TickHz,
		BroadcastEvery: cfg.BroadcastEvery,
	}, cfg.MaxRooms)
	hub.SetManager(manager)

	manager.StartReaper(ctx,
		time.Duration(cfg.ReaperInterval)*time.Second,
		time.Duration(cfg.RoomIdleMinutes)*time.Minute)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, db, cache, manager, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting hoopshot server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	manager.Shutdown()
	stopRecorder()
	<-recorder.Done()
}
