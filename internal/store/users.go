package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm-catalog/internal/models"
)

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

// UpsertAdmin creates the admin account or resets its password hash.
func (s *Store) UpsertAdmin(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u, err := s.UserByEmail(ctx, email)
	switch {
	case err == nil:
		u.PasswordHash = passwordHash
		u.IsAdmin = true
		if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
			return nil, fmt.Errorf("update admin: %w", err)
		}
		return u, nil
	case errors.Is(err, ErrNotFound):
		u = &models.User{Email: email, PasswordHash: passwordHash, IsAdmin: true}
		if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		return u, nil
	default:
		return nil, err
	}
}

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

// ActiveSession returns the session if it exists and has not expired at now.
func (s *Store) ActiveSession(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now).
		First(&sess).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

// PurgeExpiredSessions deletes sessions that expired before now.
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
