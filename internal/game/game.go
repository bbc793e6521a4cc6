package game

import (
	"fmt"

	"tictactoe-ai/internal/apperror"
)

// Game is a single mutable game. The evaluator functions in this package never
// modify a Board; Game is where the caller's copy changes cell by cell.
type Game struct {
	Board       Board
	CurrentTurn PlayerMark
	Winner      PlayerMark
	result      Result
}

// NewGame starts an empty game with first to move. X moves first unless told otherwise.
func NewGame(first PlayerMark) *Game {
	if !first.Valid() {
		first = PlayerX
	}
	return &Game{
		Board:       Board{},
		CurrentTurn: first,
		Winner:      None,
		result:      Result{Outcome: InProgress},
	}
}

// Move places the current player's mark at (row, col) and passes the turn.
func (g *Game) Move(row, col int) error {
	if g.result.Finished() {
		return apperror.ErrGameFinished
	}
	p := Position{Row: row, Col: col}
	if !p.InBounds() {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, row, col)
	}
	if g.Board.At(p) != None {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
	}

	g.Board[row][col] = g.CurrentTurn
	g.CurrentTurn = g.CurrentTurn.Opponent()

	g.result = Evaluate(g.Board)
	g.Winner = g.result.Winner
	return nil
}

// Result returns the current terminal status.
func (g *Game) Result() Result {
	return g.result
}

// IsDraw checks if the game is a draw.
func (g *Game) IsDraw() bool {
	return g.result.Outcome == Draw
}

// IsOver reports whether no further moves are accepted.
func (g *Game) IsOver() bool {
	return g.result.Finished()
}
