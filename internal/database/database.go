package database

import (
	"context"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row does not exist or belongs to another user
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a user already has a subscription with the same name
var ErrDuplicate = errors.New("duplicate record")

// DB wraps the SQLite connection used by the repositories
type DB struct {
	*sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	reference_value INTEGER NOT NULL,
	unit TEXT NOT NULL,
	type TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	category_id INTEGER NOT NULL REFERENCES categories (id),
	name TEXT NOT NULL,
	total_cost INTEGER NOT NULL,
	user_share_cost INTEGER NOT NULL,
	monthly_share_cost INTEGER NOT NULL,
	billing_cycle TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

DROP INDEX IF EXISTS idx_subscriptions_user_name;
CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_user_name_nocase ON subscriptions (user_id, name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS subscription_usages (
	subscription_id INTEGER NOT NULL REFERENCES subscriptions (id) ON DELETE CASCADE,
	usage_month TEXT NOT NULL,
	usage_value INTEGER NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (subscription_id, usage_month)
);`

// Open opens (or creates) the SQLite database at path and applies the schema
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	conn, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, err
	}

	log.Println("Database initialized successfully")
	return &DB{DB: conn}, nil
}
