package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"farm-catalog/internal/models"
	"farm-catalog/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "farm_session"

var (
	// ErrInvalidCredentials covers unknown email, wrong password and non-admin accounts alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and resolves session tokens. A token is an HS256 JWT whose
// jti names a server-side session row, so logout revokes it immediately.
type Manager struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(st *store.Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  st,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the credentials and opens a new session.
func (m *Manager) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := m.store.UserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, fmt.Errorf("lookup user: %w", err)
		}
		burnCompare(password)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) || !user.IsAdmin {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := m.now()
	if _, err := m.store.PurgeExpiredSessions(ctx, now); err != nil {
		return "", time.Time{}, fmt.Errorf("purge sessions: %w", err)
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	token, err := m.sign(user, sess, now)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, sess.ExpiresAt, nil
}

func (m *Manager) sign(user *models.User, sess *models.Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Resolve validates a token and returns the identity it carries.
func (m *Manager) Resolve(ctx context.Context, token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidSession
	}

	sess, err := m.store.ActiveSession(ctx, c.ID, m.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Identity{}, ErrInvalidSession
		}
		return Identity{}, err
	}
	if strconv.FormatUint(uint64(sess.UserID), 10) != c.Subject {
		return Identity{}, ErrInvalidSession
	}

	return Identity{UserID: sess.UserID, Email: c.Email, SessionID: sess.ID}, nil
}

// Revoke ends a session.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	return m.store.DeleteSession(ctx, sessionID)
}
