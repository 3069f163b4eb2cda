package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/objectkey"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults. Options run in order, so WithEnv normally comes first and
// explicit overrides after it.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	limits := giveaway.DefaultUploadLimits()
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseURL:  "memory",
		DatabaseType: "memory",
		R2: R2Config{
			Scheme:        "https",
			Region:        "auto",
			PresignExpiry: 600,
		},
		Upload: UploadConfig{
			MaxFiles:      limits.MaxFiles,
			MaxFileSize:   limits.MaxFileSize,
			AcceptedTypes: limits.AcceptedTypes,
		},
	}
}

// ServerConfig represents server configuration for the giveaway service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// DatabaseURL is "memory" or a postgres:// URL; DatabaseType is derived from it
	DatabaseURL  string `env:"DATABASE_URL" env-default:"memory"`
	DatabaseType string

	// TokenSecret signs session tokens
	TokenSecret string `env:"TOKEN_SECRET"`

	// AllowedOrigins may call the API cross-origin with credentials; empty keeps it same-origin
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`

	R2     R2Config
	Upload UploadConfig

	// objectStore replaces the store BuildObjectStore would create
	objectStore giveaway.ObjectStore
}

// R2Config describes the bucket browsers upload listing images into
type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `env:"R2_BUCKET_NAME"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`

	// Endpoint replaces <account>.r2.cloudflarestorage.com, e.g. "localhost:9000"
	Endpoint      string `env:"R2_ENDPOINT"`
	Scheme        string `env:"R2_SCHEME" env-default:"https"`
	Region        string `env:"R2_REGION" env-default:"auto"`
	PresignExpiry int    `env:"R2_PRESIGN_EXPIRY" env-default:"600"` // seconds
	VerifyUploads bool   `env:"R2_VERIFY_UPLOADS" env-default:"false"`

	// DevBucket makes the server accept presigned PUTs itself, keeping objects in memory
	DevBucket bool `env:"R2_DEV_BUCKET" env-default:"false"`
}

// UploadConfig holds the limits applied to every presign batch
type UploadConfig struct {
	MaxFiles      int      `env:"UPLOAD_MAX_FILES" env-default:"5"`
	MaxFileSize   int64    `env:"UPLOAD_MAX_FILE_SIZE" env-default:"5242880"`
	AcceptedTypes []string `env:"UPLOAD_ACCEPTED_TYPES" env-default:"image/jpeg,image/jpg,image/png,image/webp" env-separator:","`
}

// Limits converts the upload settings into giveaway.UploadLimits
func (c *ServerConfig) Limits() giveaway.UploadLimits {
	types := make([]string, 0, len(c.Upload.AcceptedTypes))
	for _, t := range c.Upload.AcceptedTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return giveaway.UploadLimits{
		MaxFiles:      c.Upload.MaxFiles,
		MaxFileSize:   c.Upload.MaxFileSize,
		AcceptedTypes: types,
	}
}

// PresignExpiry returns the configured URL validity
func (c *ServerConfig) PresignExpiry() time.Duration {
	return time.Duration(c.R2.PresignExpiry) * time.Second
}

// Validate validates the server configuration. Errors for missing settings are
// *giveaway.ConfigError values naming the environment variable.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return &giveaway.ConfigError{Variable: "DATABASE_URL", Reason: "must be 'memory' or a postgres URL"}
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return &giveaway.ConfigError{Variable: "DATABASE_URL"}
	}

	required := []struct {
		variable string
		value    string
	}{
		{"TOKEN_SECRET", c.TokenSecret},
		{"R2_ACCOUNT_ID", c.R2.AccountID},
		{"R2_ACCESS_KEY_ID", c.R2.AccessKeyID},
		{"R2_SECRET_ACCESS_KEY", c.R2.SecretAccessKey},
		{"R2_BUCKET_NAME", c.R2.BucketName},
		{"R2_PUBLIC_BASE_URL", c.R2.PublicBaseURL},
	}
	for _, r := range required {
		if r.variable == "R2_ACCOUNT_ID" && c.R2.Endpoint != "" {
			continue
		}
		if strings.TrimSpace(r.value) == "" {
			return &giveaway.ConfigError{Variable: r.variable}
		}
	}

	if c.R2.Scheme != "http" && c.R2.Scheme != "https" {
		return &giveaway.ConfigError{Variable: "R2_SCHEME", Reason: "must be http or https"}
	}
	if c.R2.PresignExpiry < 1 {
		return &giveaway.ConfigError{Variable: "R2_PRESIGN_EXPIRY", Reason: "must be a positive number of seconds"}
	}

	limits := c.Limits()
	if limits.MaxFiles < 1 {
		return &giveaway.ConfigError{Variable: "UPLOAD_MAX_FILES", Reason: "must be at least 1"}
	}
	if limits.MaxFileSize < 1 {
		return &giveaway.ConfigError{Variable: "UPLOAD_MAX_FILE_SIZE", Reason: "must be at least 1"}
	}
	if len(limits.AcceptedTypes) == 0 {
		return &giveaway.ConfigError{Variable: "UPLOAD_ACCEPTED_TYPES"}
	}
	for _, t := range limits.AcceptedTypes {
		if _, err := objectkey.Extension(t); err != nil {
			return &giveaway.ConfigError{Variable: "UPLOAD_ACCEPTED_TYPES", Reason: fmt.Sprintf("no file extension for %q", t)}
		}
	}

	return nil
}

// PingPostgres verifies connectivity to Postgres.
func PingPostgres(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
