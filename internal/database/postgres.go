package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// ConnectPostgres opens a pooled connection and verifies it with a ping.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Connected to PostgreSQL")
	return db, nil
}

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		pseudo VARCHAR(50) NOT NULL UNIQUE,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		total_points INTEGER NOT NULL DEFAULT 0,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		reset_token VARCHAR(64),
		reset_expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS badges (
		id BIGSERIAL PRIMARY KEY,
		slug VARCHAR(50) NOT NULL UNIQUE,
		label VARCHAR(100) NOT NULL,
		color VARCHAR(7) NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS user_badges (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		badge_id BIGINT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
		level INTEGER NOT NULL DEFAULT 1,
		awarded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, badge_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sondages (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(10) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		barcode VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		condition VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS movements (
		id BIGSERIAL PRIMARY KEY,
		article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE RESTRICT,
		customer_id BIGINT REFERENCES customers(id) ON DELETE RESTRICT,
		type VARCHAR(4) NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		note TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_token)`,
	`CREATE INDEX IF NOT EXISTS idx_users_total_points ON users(total_points DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_article_id ON movements(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_customer_id ON movements(customer_id)`,
}

// InitPostgresTables creates all necessary tables if they don't exist.
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	for _, query := range schema {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	log.Info("PostgreSQL tables initialized")
	return nil
}

// TableExists reports whether a table is present in the public schema.
func TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		table,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
