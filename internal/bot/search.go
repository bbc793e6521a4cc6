package bot

import (
	"math"

	"tictactoe-ai/internal/game"
)

// winScore is the value of a win reached on the root move. Each extra ply
// costs one point, so quicker wins and slower losses score higher.
const winScore = 10

// SearchResult is the outcome of a full-depth search from one board.
type SearchResult struct {
	Move  game.Position
	Score int
	Nodes int
	OK    bool
}

type search struct {
	self  game.PlayerMark
	nodes int
}

// BestMove returns the optimal move for mark, or false if the board is terminal.
func BestMove(b game.Board, mark game.PlayerMark) (game.Position, bool) {
	res := Search(b, mark)
	return res.Move, res.OK
}

// Search runs plain minimax over every continuation of b. Ties are broken
// in favour of the first move in row-major order.
func Search(b game.Board, mark game.PlayerMark) SearchResult {
	s := &search{self: mark}
	return s.root(b, func(child game.Board, _ int) int {
		return s.minimax(child, mark.Opponent(), 1)
	})
}

// SearchPruned is Search with alpha-beta pruning. It visits fewer nodes and
// returns the same move and score.
func SearchPruned(b game.Board, mark game.PlayerMark) SearchResult {
	s := &search{self: mark}
	return s.root(b, func(child game.Board, best int) int {
		return s.alphaBeta(child, mark.Opponent(), 1, best, math.MaxInt)
	})
}

func (s *search) root(b game.Board, value func(child game.Board, best int) int) SearchResult {
	if !s.self.Valid() || game.IsTerminal(b) {
		return SearchResult{Move: game.Position{Row: -1, Col: -1}}
	}

	s.nodes++
	res := SearchResult{Score: math.MinInt, OK: true}
	for _, p := range game.EmptyCells(b) {
		v := value(b.With(p, s.self), res.Score)
		if v > res.Score {
			res.Score = v
			res.Move = p
		}
	}
	res.Nodes = s.nodes
	return res
}

// terminal scores a finished board reached after depth plies.
func (s *search) terminal(b game.Board, depth int) (int, bool) {
	switch game.CheckWinner(b) {
	case s.self:
		return winScore - depth, true
	case s.self.Opponent():
		return depth - winScore, true
	}
	if game.IsBoardFull(b) {
		return 0, true
	}
	return 0, false
}

func (s *search) minimax(b game.Board, toMove game.PlayerMark, depth int) int {
	s.nodes++
	if v, done := s.terminal(b, depth); done {
		return v
	}

	maximizing := toMove == s.self
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	for _, p := range game.EmptyCells(b) {
		v := s.minimax(b.With(p, toMove), toMove.Opponent(), depth+1)
		if maximizing && v > best || !maximizing && v < best {
			best = v
		}
	}
	return best
}

func (s *search) alphaBeta(b game.Board, toMove game.PlayerMark, depth, alpha, beta int) int {
	s.nodes++
	if v, done := s.terminal(b, depth); done {
		return v
	}

	if toMove == s.self {
		best := math.MinInt
		for _, p := range game.EmptyCells(b) {
			v := s.alphaBeta(b.With(p, toMove), toMove.Opponent(), depth+1, alpha, beta)
			best = max(best, v)
			alpha = max(alpha, v)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, p := range game.EmptyCells(b) {
		v := s.alphaBeta(b.With(p, toMove), toMove.Opponent(), depth+1, alpha, beta)
		best = min(best, v)
		beta = min(beta, v)
		if alpha >= beta {
			break
		}
	}
	return best
}
