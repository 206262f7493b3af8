package main

import (
	"flag"
	"log"

	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/logging"

	"go.uber.org/zap"
)

func main() {
	from := flag.String("from", "farm.db", "path of the sqlite database to copy from")
	flag.Parse()

	cfg := config.LoadConfig()
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if _, driver := database.Dialector(cfg.DatabaseURL); driver != database.DriverPostgres {
		logger.Fatal("DATABASE_URL must point at postgres", zap.String("driver", driver))
	}

	srcCfg := *cfg
	srcCfg.DatabaseURL = *from
	src, err := database.Open(&srcCfg, logger)
	if err != nil {
		logger.Fatal("Failed to open sqlite source", zap.String("path", *from), zap.Error(err))
	}
	defer database.Close(src)

	dst, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open postgres destination", zap.Error(err))
	}
	defer database.Close(dst)

	logger.Info("Starting data migration", zap.String("from", *from))
	if err := database.CopyAll(src, dst, logger); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
	if err := database.SyncSequences(dst, logger); err != nil {
		logger.Fatal("Sequence sync failed", zap.Error(err))
	}
	logger.Info("Migration completed")
}
