package game

// Outcome is the terminal status of a board.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Win        Outcome = "win"
	Draw       Outcome = "draw"
)

// Result describes how a board stands. Winner and Line are set only for Win.
type Result struct {
	Outcome Outcome    `json:"outcome"`
	Winner  PlayerMark `json:"winner,omitempty"`
	Line    *Line      `json:"line,omitempty"`
}

// Finished reports whether the result is terminal.
func (r Result) Finished() bool {
	return r.Outcome != InProgress
}

// Evaluate classifies b as a win, a draw or still in progress.
func Evaluate(b Board) Result {
	if winner, line, ok := WinningLine(b); ok {
		return Result{Outcome: Win, Winner: winner, Line: &line}
	}
	if IsBoardFull(b) {
		return Result{Outcome: Draw}
	}
	return Result{Outcome: InProgress}
}
