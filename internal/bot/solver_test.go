package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictactoe-ai/internal/game"
)

type memStore struct {
	solutions map[game.Board]SearchResult
	failAfter int
}

func (s *memStore) SaveSolution(_ context.Context, b game.Board, mark game.PlayerMark, res SearchResult) error {
	if s.failAfter > 0 && len(s.solutions) >= s.failAfter {
		return errors.New("disk full")
	}
	if mark != game.NextMark(b) {
		return errors.New("unexpected side to move")
	}
	s.solutions[b] = res
	return nil
}

func TestReachablePositions(t *testing.T) {
	positions := ReachablePositions()
	require.Len(t, positions, 4520)

	seen := make(map[game.Board]bool, len(positions))
	for _, pos := range positions {
		assert.False(t, seen[pos.Board], "duplicate %s", pos.Board)
		seen[pos.Board] = true
		assert.False(t, game.IsTerminal(pos.Board), pos.Board.String())
		var x, o int
		for r := range game.Size {
			for c := range game.Size {
				switch pos.Board[r][c] {
				case game.PlayerX:
					x++
				case game.PlayerO:
					o++
				}
			}
		}
		require.Contains(t, []int{0, 1}, x-o, pos.Board.String())
		if x == o {
			assert.Equal(t, game.PlayerX, pos.ToMove, pos.Board.String())
		} else {
			assert.Equal(t, game.PlayerO, pos.ToMove, pos.Board.String())
		}
	}
	assert.True(t, seen[game.Board{}])
}

func TestSolve(t *testing.T) {
	store := &memStore{solutions: make(map[game.Board]SearchResult)}

	n, err := Solve(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 4520, n)
	require.Len(t, store.solutions, 4520)

	root := store.solutions[game.Board{}]
	assert.True(t, root.OK)
	assert.Equal(t, 0, root.Score)

	b := mustParse(t, "XX./OO./...")
	assert.Equal(t, game.Position{Row: 0, Col: 2}, store.solutions[b].Move)
}

func TestSolve_StopsOnStoreError(t *testing.T) {
	store := &memStore{solutions: make(map[game.Board]SearchResult), failAfter: 10}

	n, err := Solve(context.Background(), store)
	require.Error(t, err)
	assert.Equal(t, 10, n)
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Solve(ctx, &memStore{solutions: make(map[game.Board]SearchResult)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
