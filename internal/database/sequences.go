package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SerialTables are the tables with an auto-increment id column.
var SerialTables = []string{
	"users",
	"products",
	"media",
	"inquiries",
	"analytics_events",
}

// SyncSequences moves every postgres serial sequence past the current max(id).
// Needed after rows were copied in with explicit ids.
func SyncSequences(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() != DriverPostgres {
		return fmt.Errorf("sequence sync requires postgres, got %s", db.Dialector.Name())
	}

	var failed int
	for _, table := range SerialTables {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			log.Error("Sequence sync failed", zap.String("table", table), zap.Error(err))
			failed++
			continue
		}
		log.Info("Sequence synced", zap.String("table", table))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sequences failed to sync", failed, len(SerialTables))
	}
	return nil
}
