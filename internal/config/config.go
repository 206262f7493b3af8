package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const defaultSecretKey = "dev-secret-key"

type Config struct {
	Port        string
	Environment string
	SecretKey   string
	DatabaseURL string

	// WhatsAppNumber is the farm contact number shown on every page
	WhatsAppNumber string

	StaticDir         string
	UploadDir         string
	UniqueUploadNames bool

	SessionTTL   time.Duration
	CookieSecure bool
	CSRFEnabled  bool

	ShowInactiveProducts bool
	StrictValidation     bool

	LogMode  string
	LogLevel string
	LogFile  string

	WhatsAppToken  string
	PhoneNumberID  string
	WhatsAppAPIURL string

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: no .env file loaded")
	}

	staticDir := getEnv("STATIC_DIR", "web/static")

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("APP_ENV", "development"),
		SecretKey:            getEnv("SECRET_KEY", defaultSecretKey),
		DatabaseURL:          getEnv("DATABASE_URL", "farm.db"),
		WhatsAppNumber:       getEnv("WHATSAPP_NUMBER", "264811234567"),
		StaticDir:            staticDir,
		UploadDir:            getEnv("UPLOAD_DIR", staticDir+"/uploads/videos"),
		UniqueUploadNames:    getBool("UNIQUE_UPLOAD_NAMES", false),
		SessionTTL:           getDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure:         getBool("COOKIE_SECURE", false),
		CSRFEnabled:          getBool("CSRF_ENABLED", true),
		ShowInactiveProducts: getBool("SHOW_INACTIVE_PRODUCTS", true),
		StrictValidation:     getBool("STRICT_VALIDATION", false),
		LogMode:              getEnv("LOG_MODE", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              getEnv("LOG_FILE", ""),
		WhatsAppToken:        getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:        getEnv("PHONE_NUMBER_ID", ""),
		WhatsAppAPIURL:       getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	if c.IsProduction() && c.SecretKey == defaultSecretKey {
		return errors.New("SECRET_KEY must be changed outside development")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.StaticDir == "" || c.UploadDir == "" {
		return errors.New("STATIC_DIR and UPLOAD_DIR must be set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// WhatsAppAlertsEnabled reports whether inquiry alerts can be sent through the Cloud API
func (c *Config) WhatsAppAlertsEnabled() bool {
	return c.WhatsAppToken != "" && c.PhoneNumberID != "" && c.WhatsAppNumber != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := cast.ToBoolE(getEnv(key, ""))
	if err != nil || getEnv(key, "") == "" {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := cast.ToDurationE(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return v
}
