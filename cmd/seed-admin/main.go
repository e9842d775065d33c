package main

import (
	"log"
	"os"

	"github.com/playmatatu/hoopshot/internal/admin"
	"github.com/playmatatu/hoopshot/internal/config"
	"github.com/playmatatu/hoopshot/internal/database"
)

func main() {
	// Initialize configuration (.env is read by config.Load)
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
		log.Printf("Using default admin name: %s", name)
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "change-me-in-production"
		log.Printf("WARNING: Using default admin token. Set ADMIN_TOKEN env var in production!")
	}

	if err := admin.CreateAdminAccount(db, name, adminToken); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account created/updated successfully")
	log.Println("Send these headers to /api/v1/admin/*:")
	log.Printf("  X-Admin-Name: %s", name)
	log.Printf("  X-Admin-Token: %s", adminToken)
}
