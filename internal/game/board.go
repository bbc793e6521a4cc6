package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	Size      = 3
	BorderMin = 0
	BorderMax = Size - 1
)

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	}
	return None
}

// Valid reports whether m is a player mark rather than an empty cell.
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Board is a 3x3 grid. It is a value type: copies never alias.
type Board [Size][Size]PlayerMark

// Position addresses a single cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether p points inside the board.
func (p Position) InBounds() bool {
	return p.Row >= BorderMin && p.Row <= BorderMax && p.Col >= BorderMin && p.Col <= BorderMax
}

// Line is a winning triple of positions.
type Line [Size]Position

// Lines holds the 8 winning lines: rows, columns, main diagonal, anti-diagonal.
var Lines = [8]Line{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Contains reports whether p is one of the line's cells.
func (l Line) Contains(p Position) bool {
	for _, c := range l {
		if c == p {
			return true
		}
	}
	return false
}

// At returns the mark at p.
func (b Board) At(p Position) PlayerMark {
	return b[p.Row][p.Col]
}

// With returns a copy of b with mark placed at p.
func (b Board) With(p Position, mark PlayerMark) Board {
	b[p.Row][p.Col] = mark
	return b
}

// WinningLine returns the winner together with the line it completed.
// Boards where both players own a complete line are outside the contract;
// for those the first line in Lines order is reported.
func WinningLine(b Board) (PlayerMark, Line, bool) {
	for _, l := range Lines {
		first := b.At(l[0])
		if first != None && first == b.At(l[1]) && first == b.At(l[2]) {
			return first, l, true
		}
	}
	return None, Line{}, false
}

// CheckWinner returns the mark occupying a complete line, or None.
func CheckWinner(b Board) PlayerMark {
	winner, _, _ := WinningLine(b)
	return winner
}

// IsBoardFull checks whether every cell is taken.
func IsBoardFull(b Board) bool {
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// IsTerminal reports whether the game on b is over.
func IsTerminal(b Board) bool {
	return CheckWinner(b) != None || IsBoardFull(b)
}

// EmptyCells lists the free cells in row-major order.
func EmptyCells(b Board) []Position {
	cells := make([]Position, 0, Size*Size)
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// NextMark infers the side to move assuming X moved first.
func NextMark(b Board) PlayerMark {
	var x, o int
	for r := range Size {
		for c := range Size {
			switch b[r][c] {
			case PlayerX:
				x++
			case PlayerO:
				o++
			}
		}
	}
	if x > o {
		return PlayerO
	}
	return PlayerX
}
