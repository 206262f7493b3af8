package main

import (
	"log"

	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/logging"

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

	logger.Info("Syncing PostgreSQL sequences")
	if err := database.SyncSequences(db, logger); err != nil {
		logger.Fatal("Sequence sync failed", zap.Error(err))
	}
	logger.Info("DONE")
}
