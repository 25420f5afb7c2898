// Package config handles configuration for the portfolio server, including
// defaults, an optional .env file, and environment variable overlay.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the portfolio server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - StorageBackend: "local" or "s3"; selected once per process lifetime.
//   - DataDir: root directory for the local backend.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey:
//     object storage settings for the remote backend.
//   - RetryMaxAttempts / RetryInitialBackoff: eventual-consistency retry policy.
//   - JWTSecret / JWTRefreshSecret: HMAC secrets for signing JWTs (HS256).
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - AdminEmail: the single admin account's address; OTPs are mailed here.
//   - OTPPassword: shared secret required to request an OTP.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword: outbound mail settings.
//   - AllowedOrigins: CORS origin allow-list.
type Config struct {
	EndpointAddr string `env:"ENDPOINT_ADDR"`

	StorageBackend string `env:"STORAGE_BACKEND"`
	DataDir        string `env:"DATA_DIR"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`

	RetryMaxAttempts    int           `env:"RETRY_MAX_ATTEMPTS"`
	RetryInitialBackoff time.Duration `env:"RETRY_INITIAL_BACKOFF"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL"`

	AdminEmail  string `env:"ADMIN_EMAIL"`
	OTPPassword string `env:"OTP_PASSWORD"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The secrets are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3001"
	c.StorageBackend = "local"
	c.DataDir = "data"
	c.S3Region = "us-east-1"
	c.RetryMaxAttempts = 3
	c.RetryInitialBackoff = 200 * time.Millisecond
	c.AccessTokenTTL = time.Hour
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.SMTPHost = "smtp.gmail.com"
	c.SMTPPort = 587
	c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional .env file and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no safe fallback. Missing values are a
// startup-class failure, never silently defaulted.
func (c *Config) Validate() error {
	if c.AdminEmail == "" {
		return fmt.Errorf("%w: ADMIN_EMAIL is required", common.ErrConfig)
	}
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET and JWT_REFRESH_SECRET are required", common.ErrConfig)
	}
	switch c.StorageBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: S3_BUCKET is required for the s3 backend", common.ErrConfig)
		}
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("%w: S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 backend", common.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrConfig, c.StorageBackend)
	}
	return nil
}
