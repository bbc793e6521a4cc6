package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

const solvedPositionsSchema = `
	CREATE TABLE IF NOT EXISTS solved_positions (
		board    TEXT NOT NULL,
		mark     TEXT NOT NULL,
		move_row INTEGER NOT NULL,
		move_col INTEGER NOT NULL,
		score    INTEGER,
		PRIMARY KEY (board, mark)
	);`

// LocalConnect opens the SQLite database at dbPath.
func LocalConnect(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.ConnectContext(ctx, driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	pool.SetMaxOpenConns(1)
	slog.InfoContext(ctx, "connected to local database", "path", dbPath)
	return pool, nil
}

// InitializeDB creates the schema if it does not exist yet.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, solvedPositionsSchema); err != nil {
		return fmt.Errorf("failed to create solved_positions table: %w", err)
	}

	slog.InfoContext(ctx, "DB connection initialized and schema verified.")
	return nil
}
