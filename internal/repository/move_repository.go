package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-ai/internal/bot"
	"tictactoe-ai/internal/game"
)

var tracer = otel.Tracer("repository")

// MoveRepository is a Redis cache of selected moves.
type MoveRepository interface {
	bot.MoveCache
	Warm(ctx context.Context, positions []SolvedPosition) error
}

type redisMoveRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMoveRepository creates a new Redis-based MoveRepository. A zero ttl keeps keys forever.
func NewMoveRepository(rdb *redis.Client, ttl time.Duration) MoveRepository {
	return &redisMoveRepository{rdb: rdb, ttl: ttl}
}

func moveKey(board string, mark string) string {
	return fmt.Sprintf("move:%s:%s", board, mark)
}

func encodeMove(move game.Position) string {
	return fmt.Sprintf("%d,%d", move.Row, move.Col)
}

func decodeMove(s string) (game.Position, error) {
	var move game.Position
	if _, err := fmt.Sscanf(s, "%d,%d", &move.Row, &move.Col); err != nil {
		return game.Position{}, fmt.Errorf("failed to decode cached move %q: %w", s, err)
	}
	return move, nil
}

// Lookup retrieves a cached move from Redis.
func (r *redisMoveRepository) Lookup(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	key := moveKey(b.Key(), string(mark))
	ctx, span := tracer.Start(ctx, "MoveRepository.Lookup", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return game.Position{}, false, nil
	}
	if err != nil {
		return game.Position{}, false, fmt.Errorf("failed to get move from redis: %w", err)
	}

	move, err := decodeMove(val)
	if err != nil {
		return game.Position{}, false, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return move, true, nil
}

// Store caches a move in Redis.
func (r *redisMoveRepository) Store(ctx context.Context, b game.Board, mark game.PlayerMark, move game.Position) error {
	ctx, span := tracer.Start(ctx, "MoveRepository.Store")
	defer span.End()

	if err := r.rdb.Set(ctx, moveKey(b.Key(), string(mark)), encodeMove(move), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store move in redis: %w", err)
	}
	return nil
}

// Warm loads book rows into Redis in a single pipeline.
func (r *redisMoveRepository) Warm(ctx context.Context, positions []SolvedPosition) error {
	ctx, span := tracer.Start(ctx, "MoveRepository.Warm", trace.WithAttributes(attribute.Int("cache.entries", len(positions))))
	defer span.End()

	pipe := r.rdb.Pipeline()
	for _, p := range positions {
		pipe.Set(ctx, moveKey(p.Board, p.Mark), encodeMove(game.Position{Row: p.Row, Col: p.Col}), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to warm move cache in redis: %w", err)
	}
	return nil
}
