package database

import (
	"fmt"

	"farm-catalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const copyBatchSize = 500

// CopyAll copies every table from src into dst, parents before children so
// foreign keys hold. Each table is written in its own transaction.
func CopyAll(src, dst *gorm.DB, log *zap.Logger) error {
	steps := []struct {
		table string
		rows  interface{}
	}{
		{"users", &[]models.User{}},
		{"sessions", &[]models.Session{}},
		{"products", &[]models.Product{}},
		{"media", &[]models.Media{}},
		{"inquiries", &[]models.Inquiry{}},
		{"analytics_events", &[]models.AnalyticsEvent{}},
	}

	for _, step := range steps {
		n, err := copyTable(src, dst, step.rows)
		if err != nil {
			return fmt.Errorf("copy %s: %w", step.table, err)
		}
		log.Info("Table copied", zap.String("table", step.table), zap.Int64("rows", n))
	}
	return nil
}

func copyTable(src, dst *gorm.DB, rows interface{}) (int64, error) {
	result := src.Find(rows)
	if result.Error != nil {
		return 0, fmt.Errorf("read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}

	err := dst.Transaction(func(tx *gorm.DB) error {
		// associations are copied by their own step
		return tx.Omit(clause.Associations).CreateInBatches(rows, copyBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return result.RowsAffected, nil
}
