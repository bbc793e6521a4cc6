package bot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"tictactoe-ai/internal/game"
)

// MoveSelector picks a move for mark. It returns false when the board is terminal.
type MoveSelector interface {
	SelectMove(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error)
}

// OptimalSelector always plays the search's best move.
type OptimalSelector struct {
	Pruning bool
}

func (s OptimalSelector) SelectMove(_ context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	var res SearchResult
	if s.Pruning {
		res = SearchPruned(b, mark)
	} else {
		res = Search(b, mark)
	}
	return res.Move, res.OK, nil
}

// RandomSelector makes a uniformly random legal move.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector uses rng when given, the global generator otherwise.
func NewRandomSelector(rng *rand.Rand) *RandomSelector {
	return &RandomSelector{rng: rng}
}

func (s *RandomSelector) SelectMove(_ context.Context, b game.Board, _ game.PlayerMark) (game.Position, bool, error) {
	if game.IsTerminal(b) {
		return game.Position{Row: -1, Col: -1}, false, nil
	}
	cells := game.EmptyCells(b)
	return cells[s.intN(len(cells))], true, nil
}

func (s *RandomSelector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *RandomSelector) float64() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// MixSelector plays a random move with probability Rate and defers to Base otherwise.
type MixSelector struct {
	Rate   float64
	Random *RandomSelector
	Base   MoveSelector
}

func (s *MixSelector) SelectMove(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	if s.Rate > 0 && s.Random.float64() < s.Rate {
		return s.Random.SelectMove(ctx, b, mark)
	}
	return s.Base.SelectMove(ctx, b, mark)
}

// MoveCache stores selected moves keyed by board and side to move.
type MoveCache interface {
	Lookup(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error)
	Store(ctx context.Context, b game.Board, mark game.PlayerMark, move game.Position) error
}

// CachedSelector serves moves from Cache and falls back to Next on a miss,
// writing the answer back. Cache failures are logged and never surface to the
// caller. Next must be deterministic.
type CachedSelector struct {
	Name  string
	Cache MoveCache
	Next  MoveSelector
}

func (s *CachedSelector) SelectMove(ctx context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	if game.IsTerminal(b) {
		return game.Position{Row: -1, Col: -1}, false, nil
	}

	move, found, err := s.Cache.Lookup(ctx, b, mark)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "move cache lookup failed", "cache", s.Name, "board", b.Key(), "error", err)
	case found && move.InBounds() && b.At(move) == game.None:
		return move, true, nil
	case found:
		slog.WarnContext(ctx, "move cache returned an illegal move, ignoring", "cache", s.Name, "board", b.Key(), "row", move.Row, "col", move.Col)
	}

	move, ok, err := s.Next.SelectMove(ctx, b, mark)
	if err != nil || !ok {
		return move, ok, err
	}
	if err := s.Cache.Store(ctx, b, mark, move); err != nil {
		slog.WarnContext(ctx, "move cache store failed", "cache", s.Name, "board", b.Key(), "error", err)
	}
	return move, true, nil
}
