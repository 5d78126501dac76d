package db

import (
	"database/sql"
	"fmt"

	"github.com/hanwool/handoff-api/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens the Postgres pool, applies the configured limits, and pings
// once so a bad DSN fails at startup rather than on the first request.
func Connect(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
	)

	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.DBMaxOpenConns)
	pool.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := pool.Ping(); err != nil {
		return nil, err
	}
	return pool, nil
}

// URL renders the migrate-compatible DSN for the same database.
func URL(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
