// Package config loads process configuration from the environment exactly
// once, in main. Components receive the struct (or individual fields)
// through their constructors; nothing reads the environment afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const devSecret = "dev-secret"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Env is "dev" (default) or "prod". In prod JWT_SECRET must be set
	// explicitly; the dev fallback is rejected.
	Env string `env:"ENV" envDefault:"dev"`

	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort string `env:"DB_PORT" envDefault:"5432"`
	DBName string `env:"DB_NAME" envDefault:"handoffdb"`
	DBUser string `env:"DB_USER" envDefault:"handoff"`
	DBPass string `env:"DB_PASS" envDefault:"handoff"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	// JWTSecret signs bearer tokens. Never hardcode a real value; the
	// default exists only so a dev instance starts without setup.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`

	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// LogFormat is "text" (default) or "json".
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// CORSAllowedOrigins lists origins allowed for CORS. Empty means
	// same-origin only.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Env == "prod" && (cfg.JWTSecret == "" || cfg.JWTSecret == devSecret) {
		return Config{}, fmt.Errorf("JWT_SECRET must be set in prod")
	}
	return cfg, nil
}
