package bot

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-ai/internal/game"
)

// SelfPlay plays one game with the calculator moving for both sides at the
// given difficulty and returns the final result.
func (c *Calculator) SelfPlay(ctx context.Context, difficulty string) (game.Result, error) {
	ctx, span := tracer.Start(ctx, "bot.SelfPlay", trace.WithAttributes(
		attribute.String("bot.difficulty", difficulty),
	))
	defer span.End()

	g := game.NewGame(game.PlayerX)
	for !g.IsOver() {
		if err := ctx.Err(); err != nil {
			return game.Result{}, err
		}
		row, col, err := c.NextMove(ctx, game.BoardToSlice(g.Board), g.CurrentTurn, difficulty)
		if err != nil {
			return game.Result{}, fmt.Errorf("self-play move for %s: %w", g.CurrentTurn, err)
		}
		if err := g.Move(row, col); err != nil {
			return game.Result{}, fmt.Errorf("self-play move for %s: %w", g.CurrentTurn, err)
		}
	}

	res := g.Result()
	span.SetAttributes(
		attribute.String("game.outcome", string(res.Outcome)),
		attribute.String("game.final_board", g.Board.Key()),
	)
	slog.DebugContext(ctx, "self-play finished", "outcome", res.Outcome, "winner", res.Winner, "board", g.Board.String())
	return res, nil
}
