package apperror

import "errors"

var (
	ErrInvalidBoard      = errors.New("board must be 3x3 with cells X, O or empty")
	ErrInvalidMark       = errors.New("mark must be X or O")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrGameFinished      = errors.New("game already finished")
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrOutOfBounds       = errors.New("invalid move")
	ErrNotYourTurn       = errors.New("not player's turn")
	ErrNotFound          = errors.New("not found")
)
