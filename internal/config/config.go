// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBMaxOpenConns caps open connections in the pool; 0 means unlimited.
	DBMaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS"`
	// DBMaxIdleConns caps idle connections kept in the pool.
	DBMaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS"`
	// DBConnMaxLifetime recycles connections older than this (e.g. "30m").
	DBConnMaxLifetime string `mapstructure:"DB_CONN_MAX_LIFETIME"`
	// BaseURL is the externally visible base URL used to build invite links (e.g. http://localhost:8080).
	BaseURL string `mapstructure:"BASE_URL"`
	// SessionSecret signs session cookie tokens (HS256). Required in production.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionTTL is the session lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// InviteTTL is the invite token lifetime (e.g. "168h" for 7 days).
	InviteTTL string `mapstructure:"INVITE_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// UploadDir is the directory claim documents are stored in.
	UploadDir string `mapstructure:"UPLOAD_DIR"`
	// MaxUploadBytes caps a single claim document upload (default 5 MiB).
	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES"`
	// OTLPEndpoint enables telemetry export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("INVITE_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(5*1024*1024))
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.SessionSecret == "" && cfg.Env == "production" {
		return nil, errors.New("config: SESSION_SECRET must be set when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 * 1024 * 1024
	}

	return &cfg, nil
}

// DBConnLifetime parses DBConnMaxLifetime as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) DBConnLifetime() time.Duration {
	d, err := time.ParseDuration(c.DBConnMaxLifetime)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// SessionDuration parses SessionTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// InviteDuration parses InviteTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) InviteDuration() time.Duration {
	d, err := time.ParseDuration(c.InviteTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}
