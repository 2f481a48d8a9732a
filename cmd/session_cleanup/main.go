package main

import (
	"context"
	"log"
	"time"

	"lifelessons/internal/config"
	"lifelessons/internal/database"
	"lifelessons/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()

	db, err := database.Connect(cfg.Database.URL, logger)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := repository.NewSessionRepository(db).DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("cleanup sessions failed: %v", err)
	}

	logger.Info("session cleanup completed", "sessions", removed)
}
