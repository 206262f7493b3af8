package store

import (
	"context"
	"fmt"

	"farm-catalog/internal/models"

	"gorm.io/gorm"
)

// LatestActive returns at most limit active products of a category, newest first.
func (s *Store) LatestActive(ctx context.Context, category string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := newestFirst(s.db.WithContext(ctx)).
		Where("category = ? AND is_active = ?", category, true).
		Preload("Media", newestFirst).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("latest %s products: %w", category, err)
	}
	return products, nil
}

// ProductByID returns a product with its media, active or not.
func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Preload("Media", newestFirst).First(&p, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

// ListProducts returns every product, inactive included, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := newestFirst(s.db.WithContext(ctx)).Preload("Media", newestFirst).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Omit("Media").Create(p).Error
}

// SetProductActive updates the visibility flag and returns the updated product.
func (s *Store) SetProductActive(ctx context.Context, id uint, active bool) (*models.Product, error) {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.ProductByID(ctx, id)
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

// DeleteProduct removes a product and, in the same transaction, its media rows.
// Inquiries about the product are kept with product_id cleared. The removed
// media rows are returned so their files can be deleted.
func (s *Store) DeleteProduct(ctx context.Context, id uint) ([]models.Media, error) {
	var removed []models.Media
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			return wrapNotFound(err)
		}
		if err := tx.Where("product_id = ?", id).Find(&removed).Error; err != nil {
			return fmt.Errorf("load media: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Media{}).Error; err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		if err := tx.Model(&models.Inquiry{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
			return fmt.Errorf("detach inquiries: %w", err)
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ProductExists reports whether id names a stored product.
func (s *Store) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
