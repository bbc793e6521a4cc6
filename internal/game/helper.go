package game

import (
	"fmt"
	"strings"

	"tictactoe-ai/internal/apperror"
	"tictactoe-ai/internal/validator"
)

const emptyKey = '.'

// BoardFromSlice converts the [][]PlayerMark shape used at package boundaries
// into a Board, rejecting anything that is not a 3x3 grid of legal cells.
func BoardFromSlice(board [][]PlayerMark) (Board, error) {
	if err := validator.GetValidator().Var(board, "len=3,dive,len=3,dive,mark"); err != nil {
		return Board{}, fmt.Errorf("%w: %v", apperror.ErrInvalidBoard, err)
	}
	var b Board
	for r := range Size {
		for c := range Size {
			b[r][c] = board[r][c]
		}
	}
	return b, nil
}

// BoardToSlice converts the game board to a dynamic slice of slices.
func BoardToSlice(b Board) [][]PlayerMark {
	board := make([][]PlayerMark, Size)
	for i := range Size {
		board[i] = make([]PlayerMark, Size)
		copy(board[i], b[i][:])
	}
	return board
}

// Key renders the board row-major with '.' for empty cells, e.g. "XX.OO....".
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				sb.WriteByte(emptyKey)
			} else {
				sb.WriteString(string(b[r][c]))
			}
		}
	}
	return sb.String()
}

// String formats the board as three rows separated by '/'.
func (b Board) String() string {
	k := b.Key()
	return k[0:3] + "/" + k[3:6] + "/" + k[6:9]
}

// ParseBoard is the inverse of Board.Key. Row separators ('/') and spaces are ignored.
func ParseBoard(s string) (Board, error) {
	s = strings.NewReplacer("/", "", " ", "").Replace(s)
	if len(s) != Size*Size {
		return Board{}, fmt.Errorf("%w: %q has %d cells", apperror.ErrInvalidBoard, s, len(s))
	}
	var b Board
	for i, ch := range s {
		var m PlayerMark
		switch ch {
		case emptyKey:
			m = None
		case 'X', 'x':
			m = PlayerX
		case 'O', 'o':
			m = PlayerO
		default:
			return Board{}, fmt.Errorf("%w: unexpected cell %q", apperror.ErrInvalidBoard, ch)
		}
		b[i/Size][i%Size] = m
	}
	return b, nil
}

// ParseMark validates a mark received from outside the core.
func ParseMark(s string) (PlayerMark, error) {
	m := PlayerMark(strings.ToUpper(s))
	if !m.Valid() {
		return None, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
	return m, nil
}
