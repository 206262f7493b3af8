package main

import (
	"context"
	"log"

	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/logging"
	"farm-catalog/internal/seed"
	"farm-catalog/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := seed.Run(context.Background(), store.New(db), cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
}
