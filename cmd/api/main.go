package main

import (
	"log"

	"github.com/devalvin/storefront-golang/internal/auth"
	"github.com/devalvin/storefront-golang/internal/config"
	"github.com/devalvin/storefront-golang/internal/database"
	"github.com/devalvin/storefront-golang/internal/handlers"
	"github.com/devalvin/storefront-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	cfg := config.Load()

	// --- Token Signing Setup ---
	auth.Configure(cfg.JWTSecret, cfg.JWTExpiry)

	// --- Database Connection ---
	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// --- Application Setup ---
	// All dependencies are injected into the Handlers struct.
	app := &handlers.Handlers{
		DB:  db,
		Cfg: cfg,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	log.Printf("Starting storefront API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
