package bot

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-ai/internal/game"
)

// Turn is a board together with the side to move.
type Turn struct {
	Board  game.Board
	ToMove game.PlayerMark
}

// ReachablePositions lists every undecided board reachable from the empty
// board by alternating play with X first, each exactly once.
func ReachablePositions() []Turn {
	seen := make(map[game.Board]struct{})
	var out []Turn

	var walk func(b game.Board)
	walk = func(b game.Board) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		if game.IsTerminal(b) {
			return
		}
		toMove := game.NextMark(b)
		out = append(out, Turn{Board: b, ToMove: toMove})
		for _, p := range game.EmptyCells(b) {
			walk(b.With(p, toMove))
		}
	}
	walk(game.Board{})
	return out
}

// MoveStore persists solved positions.
type MoveStore interface {
	SaveSolution(ctx context.Context, b game.Board, mark game.PlayerMark, res SearchResult) error
}

// Solve searches every reachable position and saves the result to store.
// It returns the number of positions written.
func Solve(ctx context.Context, store MoveStore) (int, error) {
	ctx, span := tracer.Start(ctx, "bot.Solve")
	defer span.End()

	positions := ReachablePositions()
	slog.InfoContext(ctx, "solving reachable positions", "positions", len(positions))

	var nodes int
	for i, pos := range positions {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		res := SearchPruned(pos.Board, pos.ToMove)
		nodes += res.Nodes
		if err := store.SaveSolution(ctx, pos.Board, pos.ToMove, res); err != nil {
			return i, fmt.Errorf("failed to save solution for %s: %w", pos.Board.Key(), err)
		}
		if (i+1)%1000 == 0 {
			slog.InfoContext(ctx, "solve progress", "done", i+1, "total", len(positions))
		}
	}

	span.SetAttributes(attribute.Int("solve.positions", len(positions)), attribute.Int("solve.nodes", nodes))
	span.AddEvent("solved", trace.WithAttributes(attribute.Int("solve.positions", len(positions))))
	slog.InfoContext(ctx, "solve finished", "positions", len(positions), "nodes", nodes)
	return len(positions), nil
}
