package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"farm-catalog/internal/config"
	"farm-catalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to DATABASE_URL and migrates every model.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, driver := Dialector(cfg.DatabaseURL)

	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	log.Info("Database connected", zap.String("driver", driver))

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	log.Info("Database migration completed")
	return db, nil
}

// Dialector picks the gorm driver for a connection string. postgres:// URLs and
// key=value DSNs go to postgres; sqlite:/// URLs and plain paths go to sqlite.
func Dialector(url string) (gorm.Dialector, string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), strings.Contains(url, "host="):
		return postgres.Open(url), DriverPostgres
	default:
		return sqlite.Open(SQLiteDSN(url)), DriverSQLite
	}
}

// SQLiteDSN strips a sqlite:// scheme and enables foreign keys and a busy timeout.
func SQLiteDSN(url string) string {
	path := strings.TrimPrefix(url, "sqlite:///")
	path = strings.TrimPrefix(path, "sqlite://")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
