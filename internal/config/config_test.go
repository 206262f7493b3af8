package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	unset(t, "PORT", "APP_ENV", "SECRET_KEY", "DATABASE_URL", "WHATSAPP_NUMBER", "STATIC_DIR", "UPLOAD_DIR",
		"SESSION_TTL", "CSRF_ENABLED", "SHOW_INACTIVE_PRODUCTS", "STRICT_VALIDATION", "UNIQUE_UPLOAD_NAMES")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, defaultSecretKey, cfg.SecretKey)
	assert.Equal(t, "farm.db", cfg.DatabaseURL)
	assert.Equal(t, "264811234567", cfg.WhatsAppNumber)
	assert.Equal(t, "web/static", cfg.StaticDir)
	assert.Equal(t, "web/static/uploads/videos", cfg.UploadDir)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CSRFEnabled)
	assert.True(t, cfg.ShowInactiveProducts)
	assert.False(t, cfg.StrictValidation)
	assert.False(t, cfg.UniqueUploadNames)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STATIC_DIR", "/srv/static")
	unset(t, "UPLOAD_DIR")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("STRICT_VALIDATION", "true")
	t.Setenv("SHOW_INACTIVE_PRODUCTS", "0")
	t.Setenv("CSRF_ENABLED", "not-a-bool")

	cfg := LoadConfig()

	assert.Equal(t, "/srv/static/uploads/videos", cfg.UploadDir)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.StrictValidation)
	assert.False(t, cfg.ShowInactiveProducts)
	assert.True(t, cfg.CSRFEnabled, "unparsable bools fall back to the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			SecretKey:   defaultSecretKey,
			DatabaseURL: "farm.db",
			StaticDir:   "web/static",
			UploadDir:   "web/static/uploads/videos",
			SessionTTL:  time.Hour,
		}
	}

	t.Run("default secret allowed in development", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("default secret rejected in production", func(t *testing.T) {
		cfg := base()
		cfg.Environment = "production"
		assert.Error(t, cfg.Validate())

		cfg.SecretKey = "a-real-secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty database url", func(t *testing.T) {
		cfg := base()
		cfg.DatabaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive session ttl", func(t *testing.T) {
		cfg := base()
		cfg.SessionTTL = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestWhatsAppAlertsEnabled(t *testing.T) {
	cfg := &Config{WhatsAppNumber: "264811234567"}
	assert.False(t, cfg.WhatsAppAlertsEnabled())

	cfg.WhatsAppToken = "token"
	cfg.PhoneNumberID = "12345"
	assert.True(t, cfg.WhatsAppAlertsEnabled())
}

// unset removes keys for the duration of the test and restores them afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
