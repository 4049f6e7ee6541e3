package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

var ErrEmptyDSN = errors.New("postgres dsn is required")

const (
	maxOpenConns    = 16
	maxIdleConns    = 8
	connMaxLifetime = 30 * time.Minute
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id          TEXT PRIMARY KEY,
	player_id_white  TEXT NOT NULL,
	player_id_black  TEXT NOT NULL,
	result           TEXT NOT NULL,
	state            TEXT NOT NULL,
	moves            JSONB NOT NULL DEFAULT '[]',
	date_time_played TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS games_player_id_white_idx ON games (player_id_white);
CREATE INDEX IF NOT EXISTS games_player_id_black_idx ON games (player_id_black);
`

type PostgresStorage struct {
	Connection *sql.DB
}

func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresStorage{Connection: db}, nil
}

// Migrate - creates the archive table and its player indexes when missing.
func (that *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate Postgres schema: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close Postgres connection: %w", err)
	}

	return nil
}
