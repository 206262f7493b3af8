package store

import (
	"context"

	"farm-catalog/internal/models"
)

func (s *Store) CreateEvent(ctx context.Context, ev *models.AnalyticsEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

// RecentEvents returns up to limit events, newest first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := newestFirst(s.db.WithContext(ctx)).Limit(limit).Find(&events).Error
	return events, err
}

func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).Count(&n).Error
	return n, err
}
