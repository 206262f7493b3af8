package store

import (
	"context"
	"fmt"

	"farm-catalog/internal/models"
)

func (s *Store) CreateInquiry(ctx context.Context, inq *models.Inquiry) error {
	return s.db.WithContext(ctx).Omit("Product").Create(inq).Error
}

// ListInquiries returns every inquiry newest first, with the product when it still exists.
func (s *Store) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := newestFirst(s.db.WithContext(ctx)).Preload("Product").Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *Store) CountInquiries(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Inquiry{}).Count(&n).Error
	return n, err
}

func (s *Store) CountInquiriesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Inquiry{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// UpdateInquiryStatus sets a free-form status.
func (s *Store) UpdateInquiryStatus(ctx context.Context, id uint, status string) error {
	res := s.db.WithContext(ctx).Model(&models.Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
