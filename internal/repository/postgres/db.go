package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// InitDB connects to Postgres and runs the schema migration.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database connected and migrated")
	return db, nil
}

func migrateDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS loyalty_accounts (
			user_id TEXT PRIMARY KEY,
			points BIGINT NOT NULL DEFAULT 0,
			total_spent DOUBLE PRECISION NOT NULL DEFAULT 0,
			orders INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			base_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			points_used BIGINT NOT NULL DEFAULT 0,
			points_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			final_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			delivery_method TEXT NOT NULL DEFAULT '',
			user_data TEXT NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			tracking_code TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id);
	`)
	return err
}
