package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Table DDL in dependency order. Uniqueness of username, email, symbol
// and the (user, cryptocurrency) watchlist pair lives in the schema so
// the database is the final arbiter, and every FK cascades on delete.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username      VARCHAR(50)  NOT NULL UNIQUE,
		email         VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cryptocurrencies (
		id           BIGSERIAL PRIMARY KEY,
		name         VARCHAR(50) NOT NULL,
		symbol       VARCHAR(10) NOT NULL UNIQUE,
		market_price NUMERIC(20,8) NOT NULL CHECK (market_price >= 0),
		market_cap   NUMERIC(20,2) CHECK (market_cap >= 0),
		logo_url     VARCHAR(255),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		id                BIGSERIAL PRIMARY KEY,
		cryptocurrency_id BIGINT NOT NULL REFERENCES cryptocurrencies(id) ON DELETE CASCADE,
		price             NUMERIC(20,8) NOT NULL CHECK (price > 0),
		recorded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trending_cryptocurrencies (
		id                BIGSERIAL PRIMARY KEY,
		cryptocurrency_id BIGINT NOT NULL REFERENCES cryptocurrencies(id) ON DELETE CASCADE,
		rank              INTEGER NOT NULL CHECK (rank > 0),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_cryptocurrencies (
		id                BIGSERIAL PRIMARY KEY,
		user_id           UUID   NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		cryptocurrency_id BIGINT NOT NULL REFERENCES cryptocurrencies(id) ON DELETE CASCADE,
		alert_price       NUMERIC(20,8) NOT NULL CHECK (alert_price > 0),
		UNIQUE (user_id, cryptocurrency_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_history_crypto_recorded
		ON price_history (cryptocurrency_id, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_trending_rank
		ON trending_cryptocurrencies (rank)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS user_cryptocurrencies`,
	`DROP TABLE IF EXISTS trending_cryptocurrencies`,
	`DROP TABLE IF EXISTS price_history`,
	`DROP TABLE IF EXISTS cryptocurrencies`,
	`DROP TABLE IF EXISTS users`,
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes all tables. Used by the seed command for a clean
// reload; never called from the request path.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range dropStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	return nil
}
