package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tictactoe-ai/internal/apperror"
	"tictactoe-ai/internal/bot"
	"tictactoe-ai/internal/game"
)

// SolvedPosition is one row of the opening book.
type SolvedPosition struct {
	Board string        `db:"board"`
	Mark  string        `db:"mark"`
	Row   int           `db:"move_row"`
	Col   int           `db:"move_col"`
	Score sql.NullInt64 `db:"score"`
}

// BookRepository defines the interface for the solved-position book.
type BookRepository interface {
	bot.MoveCache
	bot.MoveStore
	Get(ctx context.Context, b game.Board, mark game.PlayerMark) (*SolvedPosition, error)
	All(ctx context.Context) ([]SolvedPosition, error)
	Count(ctx context.Context) (int, error)
}

type sqliteBookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a new SQLite-based BookRepository.
func NewBookRepository(db *sqlx.DB) BookRepository {
	return &sqliteBookRepository{db: db}
}

// Get retrieves a solved position. A missing row yields apperror.ErrNotFound.
func (r *sqliteBookRepository) Get(ctx context.Context, b game.Board, mark game.PlayerMark) (*SolvedPosition, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Get")
	defer span.End()

	var pos SolvedPosition
	query := `SELECT board, mark, move_row, move_col, score FROM solved_positions WHERE board = ? AND mark = ?`
	err := r.db.GetContext(ctx, &pos, query, b.Key(), string(mark))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get solved position: %w", err)
	}
	return &pos, nil
}

// Lookup implements bot.MoveCache.
func (r *sqliteBookRepository) Lookup(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	pos, err := r.Get(ctx, b, mark)
	if errors.Is(err, apperror.ErrNotFound) {
		return game.Position{}, false, nil
	}
	if err != nil {
		return game.Position{}, false, err
	}
	return game.Position{Row: pos.Row, Col: pos.Col}, true, nil
}

// Store implements bot.MoveCache. Rows written by the solver are kept.
func (r *sqliteBookRepository) Store(ctx context.Context, b game.Board, mark game.PlayerMark, move game.Position) error {
	ctx, span := tracer.Start(ctx, "BookRepository.Store")
	defer span.End()

	query := `INSERT OR IGNORE INTO solved_positions (board, mark, move_row, move_col) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, b.Key(), string(mark), move.Row, move.Col); err != nil {
		return fmt.Errorf("failed to store move: %w", err)
	}
	return nil
}

// SaveSolution implements bot.MoveStore, replacing any previous row.
func (r *sqliteBookRepository) SaveSolution(ctx context.Context, b game.Board, mark game.PlayerMark, res bot.SearchResult) error {
	ctx, span := tracer.Start(ctx, "BookRepository.SaveSolution")
	defer span.End()

	query := `
		INSERT INTO solved_positions (board, mark, move_row, move_col, score) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (board, mark) DO UPDATE SET
			move_row = excluded.move_row,
			move_col = excluded.move_col,
			score    = excluded.score`
	if _, err := r.db.ExecContext(ctx, query, b.Key(), string(mark), res.Move.Row, res.Move.Col, res.Score); err != nil {
		return fmt.Errorf("failed to save solution: %w", err)
	}
	return nil
}

// All returns every row ordered by board.
func (r *sqliteBookRepository) All(ctx context.Context) ([]SolvedPosition, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.All")
	defer span.End()

	var rows []SolvedPosition
	query := `SELECT board, mark, move_row, move_col, score FROM solved_positions ORDER BY board, mark`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list solved positions: %w", err)
	}
	return rows, nil
}

// Count returns the number of rows in the book.
func (r *sqliteBookRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Count")
	defer span.End()

	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM solved_positions`); err != nil {
		return 0, fmt.Errorf("failed to count solved positions: %w", err)
	}
	return n, nil
}
