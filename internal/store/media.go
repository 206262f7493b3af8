package store

import (
	"context"

	"farm-catalog/internal/models"
)

func (s *Store) CreateMedia(ctx context.Context, m *models.Media) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) MediaByProduct(ctx context.Context, productID uint) ([]models.Media, error) {
	var media []models.Media
	err := newestFirst(s.db.WithContext(ctx)).Where("product_id = ?", productID).Find(&media).Error
	return media, err
}

// DeleteMedia removes one media row and returns it.
func (s *Store) DeleteMedia(ctx context.Context, id uint) (*models.Media, error) {
	var m models.Media
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMediaByPath reports how many media rows point at a stored file.
// Uploads with the same name share one file unless unique names are on.
func (s *Store) CountMediaByPath(ctx context.Context, path string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Media{}).Where("file_path = ?", path).Count(&n).Error
	return n, err
}
