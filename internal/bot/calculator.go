package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-ai/internal/apperror"
	"tictactoe-ai/internal/game"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")
)

// Calculator is the entry point callers use to ask the computer for a move.
type Calculator struct {
	selectors   map[Difficulty]MoveSelector
	moveCounter metric.Int64Counter
	durationMs  metric.Float64Histogram
}

// NewCalculator creates a Calculator with one selector per difficulty.
func NewCalculator(opts Options) (*Calculator, error) {
	moveCounter, err := meter.Int64Counter("bot.moves",
		metric.WithDescription("Moves selected by the computer player"))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot.moves counter: %w", err)
	}
	durationMs, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent selecting a move"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot.search.duration histogram: %w", err)
	}

	return &Calculator{
		selectors:   NewSelectors(opts),
		moveCounter: moveCounter,
		durationMs:  durationMs,
	}, nil
}

// NextMove determines the bot's next move based on the specified difficulty.
// It returns (-1, -1) when the board is already decided. Unknown difficulties
// fall back to hard.
func (c *Calculator) NextMove(ctx context.Context, board [][]game.PlayerMark, mark game.PlayerMark, difficulty string) (row, col int, err error) {
	ctx, span := tracer.Start(ctx, "bot.NextMove", trace.WithAttributes(
		attribute.String("player.mark", string(mark)),
		attribute.String("bot.difficulty", difficulty),
	))
	defer span.End()

	b, err := game.BoardFromSlice(board)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid board")
		return -1, -1, err
	}
	if !mark.Valid() {
		err := fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid mark")
		return -1, -1, err
	}
	span.SetAttributes(attribute.String("board", b.Key()))

	d, err := ParseDifficulty(difficulty)
	if err != nil {
		slog.WarnContext(ctx, "unknown difficulty, playing hard", "bot.difficulty", difficulty)
		d = Hard
	}

	start := time.Now()
	move, ok, err := c.selectors[d].SelectMove(ctx, b, mark)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	attrs := metric.WithAttributes(attribute.String("bot.difficulty", string(d)))
	c.durationMs.Record(ctx, elapsed, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move selection failed")
		return -1, -1, err
	}
	if !ok {
		slog.DebugContext(ctx, "no move, board is terminal", "board", b.Key())
		return -1, -1, nil
	}
	c.moveCounter.Add(ctx, 1, attrs)

	span.SetAttributes(attribute.Int("move.row", move.Row), attribute.Int("move.col", move.Col))
	slog.DebugContext(ctx, "bot selected move", "board", b.Key(), "player.mark", string(mark),
		"bot.difficulty", string(d), "row", move.Row, "col", move.Col, "elapsed_ms", elapsed)
	return move.Row, move.Col, nil
}
