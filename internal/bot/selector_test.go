package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictactoe-ai/internal/apperror"
	"tictactoe-ai/internal/game"
)

type memCache struct {
	moves     map[string]game.Position
	lookupErr error
	storeErr  error
	lookups   int
	stores    int
}

func newMemCache() *memCache {
	return &memCache{moves: make(map[string]game.Position)}
}

func (c *memCache) key(b game.Board, mark game.PlayerMark) string {
	return b.Key() + ":" + string(mark)
}

func (c *memCache) Lookup(_ context.Context, b game.Board, mark game.PlayerMark) (game.Position, bool, error) {
	c.lookups++
	if c.lookupErr != nil {
		return game.Position{}, false, c.lookupErr
	}
	move, ok := c.moves[c.key(b, mark)]
	return move, ok, nil
}

func (c *memCache) Store(_ context.Context, b game.Board, mark game.PlayerMark, move game.Position) error {
	c.stores++
	if c.storeErr != nil {
		return c.storeErr
	}
	c.moves[c.key(b, mark)] = move
	return nil
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestRandomSelector_OnlyPicksEmptyCells(t *testing.T) {
	ctx := context.Background()
	for _, s := range []*RandomSelector{NewRandomSelector(nil), NewRandomSelector(seeded())} {
		for _, pos := range ReachablePositions() {
			move, ok, err := s.SelectMove(ctx, pos.Board, pos.ToMove)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, game.None, pos.Board.At(move), pos.Board.String())
		}
	}
}

func TestRandomSelector_OnlyOneSpotLeft(t *testing.T) {
	b := mustParse(t, "XOX/XOO/O.X")
	move, ok, err := NewRandomSelector(nil).SelectMove(context.Background(), b, game.PlayerX)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, game.Position{Row: 2, Col: 1}, move)
}

func TestRandomSelector_TerminalBoard(t *testing.T) {
	s := NewRandomSelector(nil)
	for _, board := range []string{"XOX/OXO/XOX", "XXX/OO./..."} {
		_, ok, err := s.SelectMove(context.Background(), mustParse(t, board), game.PlayerO)
		require.NoError(t, err)
		assert.False(t, ok, board)
	}
}

func TestRandomSelector_CoversAllCells(t *testing.T) {
	s := NewRandomSelector(seeded())
	seen := make(map[game.Position]bool)
	for range 500 {
		move, _, _ := s.SelectMove(context.Background(), game.Board{}, game.PlayerX)
		seen[move] = true
	}
	assert.Len(t, seen, 9)
}

func TestMixSelector(t *testing.T) {
	ctx := context.Background()
	b := mustParse(t, "XX./OO./...")
	win := game.Position{Row: 0, Col: 2}

	t.Run("rate 0 always defers to base", func(t *testing.T) {
		s := &MixSelector{Rate: 0, Random: NewRandomSelector(seeded()), Base: OptimalSelector{}}
		for range 50 {
			move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, win, move)
		}
	})

	t.Run("rate 1 always plays random", func(t *testing.T) {
		s := &MixSelector{Rate: 1, Random: NewRandomSelector(seeded()), Base: OptimalSelector{}}
		seen := make(map[game.Position]bool)
		for range 200 {
			move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, game.None, b.At(move))
			seen[move] = true
		}
		assert.Greater(t, len(seen), 1)
	})

	t.Run("half rate mixes both and stays legal", func(t *testing.T) {
		s := &MixSelector{Rate: 0.5, Random: NewRandomSelector(seeded()), Base: OptimalSelector{Pruning: true}}
		var optimal int
		for range 400 {
			move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, game.None, b.At(move))
			if move == win {
				optimal++
			}
		}
		// 50% optimal plus 1/5 of the random half.
		assert.InDelta(t, 240, optimal, 60)
	})
}

func TestCachedSelector(t *testing.T) {
	ctx := context.Background()
	b := mustParse(t, "OO./X../...")
	block := game.Position{Row: 0, Col: 2}

	t.Run("miss computes and stores", func(t *testing.T) {
		cache := newMemCache()
		s := &CachedSelector{Name: "mem", Cache: cache, Next: OptimalSelector{}}

		move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, block, move)
		assert.Equal(t, 1, cache.stores)
		assert.Equal(t, block, cache.moves[cache.key(b, game.PlayerX)])
	})

	t.Run("hit skips the search", func(t *testing.T) {
		cache := newMemCache()
		cached := game.Position{Row: 2, Col: 2}
		cache.moves[cache.key(b, game.PlayerX)] = cached
		s := &CachedSelector{Name: "mem", Cache: cache, Next: OptimalSelector{}}

		move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, cached, move)
		assert.Zero(t, cache.stores)
	})

	t.Run("illegal cached move is ignored", func(t *testing.T) {
		cache := newMemCache()
		cache.moves[cache.key(b, game.PlayerX)] = game.Position{Row: 0, Col: 0}
		s := &CachedSelector{Name: "mem", Cache: cache, Next: OptimalSelector{}}

		move, _, err := s.SelectMove(ctx, b, game.PlayerX)
		require.NoError(t, err)
		assert.Equal(t, block, move)
	})

	t.Run("cache errors fall through", func(t *testing.T) {
		cache := newMemCache()
		cache.lookupErr = errors.New("connection refused")
		cache.storeErr = errors.New("connection refused")
		s := &CachedSelector{Name: "mem", Cache: cache, Next: OptimalSelector{}}

		move, ok, err := s.SelectMove(ctx, b, game.PlayerX)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, block, move)
	})

	t.Run("terminal board never touches the cache", func(t *testing.T) {
		cache := newMemCache()
		s := &CachedSelector{Name: "mem", Cache: cache, Next: OptimalSelector{}}

		_, ok, err := s.SelectMove(ctx, mustParse(t, "XXX/OO./..."), game.PlayerO)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, cache.lookups)
	})
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "Medium": Medium, " hard ": Hard} {
		got, err := ParseDifficulty(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDifficulty("impossible")
	assert.ErrorIs(t, err, apperror.ErrUnknownDifficulty)
}

func TestNewSelectors_ChainsCachesOutermostFirst(t *testing.T) {
	outer, inner := newMemCache(), newMemCache()
	selectors := NewSelectors(Options{
		Caches: []NamedCache{{Name: "outer", Cache: outer}, {Name: "inner", Cache: inner}},
	})

	b := mustParse(t, "XX./OO./...")
	move, ok, err := selectors[Hard].SelectMove(context.Background(), b, game.PlayerX)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, game.Position{Row: 0, Col: 2}, move)
	assert.Equal(t, 1, outer.stores)
	assert.Equal(t, 1, inner.stores)

	// Second call is answered by the outer cache alone.
	_, _, err = selectors[Hard].SelectMove(context.Background(), b, game.PlayerX)
	require.NoError(t, err)
	assert.Equal(t, 2, outer.lookups)
	assert.Equal(t, 1, inner.lookups)
}
