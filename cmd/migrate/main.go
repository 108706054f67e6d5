package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"github.com/kiiromate/JATA-V1/internal/shared/config"
	"github.com/kiiromate/JATA-V1/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.RuntimeMigrate)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		sqlDB.Close()
		os.Exit(1)
	}
	log.Printf("migrations applied")
}
