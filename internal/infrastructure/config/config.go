package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// init loads a .env file when present. godotenv.Load does not override
// already-set variables, preserving OS env > .env precedence.
func init() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
		}
	}
}

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Backend BackendConfig
	OAuth   OAuthConfig
	Email   EmailConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// JWTSecret signs session tokens. Required: the service refuses to start
	// without it rather than issuing unverifiable sessions.
	JWTSecret string        `env:"JWT_SECRET, required"`
	MaxAge    time.Duration `env:"SESSION_MAX_AGE,    default=720h"`
	UpdateAge time.Duration `env:"SESSION_UPDATE_AGE, default=24h"`
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, required"`
	APIKey  string        `env:"BACKEND_API_KEY,  required"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=10s"`
	// AssumeCompleteOn404 keeps the legacy poller fallback of treating an
	// untracked request id as completed. Disable to surface 404s instead.
	AssumeCompleteOn404 bool `env:"BACKEND_ASSUME_COMPLETE_ON_404, default=true"`
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

// GoogleEnabled reports whether the Google provider is fully configured.
func (c OAuthConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

type EmailConfig struct {
	BaseURL string        `env:"EMAIL_BASE_URL"`
	APIKey  string        `env:"EMAIL_API_KEY"`
	From    string        `env:"EMAIL_FROM, default=no-reply@draftforge.io"`
	Timeout time.Duration `env:"EMAIL_TIMEOUT, default=5s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=content_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// Missing required values fail here, at startup, not at first request.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
