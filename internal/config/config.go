package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL        string
	SnapshotTTLMins int

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TickHz          int
	BroadcastEvery  int
	VariantsFile    string
	DefaultVariant  string
	MaxRooms        int
	RoomIdleMinutes int
	ReaperInterval  int // seconds

	// Persistence worker
	RecorderQueueSize int

	// Security
	JWTSecret         string
	SessionTokenHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/hoopshot?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SnapshotTTLMins: getEnvInt("SNAPSHOT_TTL_MINUTES", 60),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		TickHz:          getEnvInt("TICK_HZ", 60),
		BroadcastEvery:  getEnvInt("BROADCAST_EVERY", 3),
		VariantsFile:    getEnv("VARIANTS_FILE", ""),
		DefaultVariant:  getEnv("DEFAULT_VARIANT", "slingshot"),
		MaxRooms:        getEnvInt("MAX_ROOMS", 500),
		RoomIdleMinutes: getEnvInt("ROOM_IDLE_MINUTES", 15),
		ReaperInterval:  getEnvInt("REAPER_INTERVAL_SECONDS", 30),

		RecorderQueueSize: getEnvInt("RECORDER_QUEUE_SIZE", 1024),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTokenHours: getEnvInt("SESSION_TOKEN_HOURS", 12),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
