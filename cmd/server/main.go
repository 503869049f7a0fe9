package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/david/grants-agent/internal/api"
	"github.com/david/grants-agent/internal/checkout"
	"github.com/david/grants-agent/internal/db"
	"github.com/david/grants-agent/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env file not found, using process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	catalog, err := checkout.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load product catalog: %v", err)
	}

	// All state lives in memory unless DATABASE_URL points at Postgres.
	var repo store.Repository = store.NewMemoryStore()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		ctx := context.Background()
		pool, err := db.Connect(ctx, dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		if err := db.ApplyMigrations(ctx, pool); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		repo = db.NewStore(pool)
	}

	srv := api.NewServer(repo, catalog)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
