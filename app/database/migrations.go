package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS branches (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		branch_id BIGINT REFERENCES branches(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transfer_fees (
		id BIGSERIAL PRIMARY KEY,
		amount_from NUMERIC(18,2) NOT NULL,
		amount_to NUMERIC(18,2) NOT NULL,
		fee NUMERIC(18,2) NOT NULL,
		position INT NOT NULL,
		CHECK (amount_from <= amount_to)
	)`,
	`CREATE TABLE IF NOT EXISTS transfer_records (
		id UUID PRIMARY KEY,
		phone_no VARCHAR(20) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		fee NUMERIC(18,2) NOT NULL,
		pay VARCHAR(10) NOT NULL,
		type VARCHAR(10) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		entry_person VARCHAR(255) NOT NULL,
		date DATE NOT NULL,
		branch_id BIGINT REFERENCES branches(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_transfer_records_date ON transfer_records(date DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transfer_records_pay ON transfer_records(pay)`,
	`CREATE INDEX IF NOT EXISTS idx_transfer_fees_position ON transfer_fees(position)`,
}

var seeds = []string{
	`INSERT INTO roles (name) VALUES ('admin') ON CONFLICT (name) DO NOTHING`,
	`INSERT INTO roles (name) VALUES ('cashier') ON CONFLICT (name) DO NOTHING`,
}

// RunMigrations creates the schema if missing. Safe to run on every start.
func RunMigrations(db *sql.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, q := range indexes {
		if _, err := db.Exec(q); err != nil {
			log.Warn("failed to create index", zap.Error(err))
		}
	}

	for _, q := range seeds {
		if _, err := db.Exec(q); err != nil {
			log.Warn("failed to seed roles", zap.Error(err))
		}
	}

	log.Info("database migrations completed")
	return nil
}
