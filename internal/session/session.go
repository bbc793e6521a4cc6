package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-ai/internal/apperror"
	"tictactoe-ai/internal/game"
)

var tracer = otel.Tracer("session")

// Mode selects whether the second seat is the computer or another human.
type Mode string

const (
	ModeAI        Mode = "ai"
	ModeTwoPlayer Mode = "2p"
)

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	NextMove(ctx context.Context, board [][]game.PlayerMark, mark game.PlayerMark, difficulty string) (row, col int, err error)
}

// Scoreboard counts finished games. It lives only as long as the session.
type Scoreboard struct {
	X       int `json:"x"`
	O       int `json:"o"`
	Draws   int `json:"draws"`
	Matches int `json:"matches"`
}

// Settings configure a new session. Zero values pick the defaults.
type Settings struct {
	Mode         Mode
	PlayerXName  string
	PlayerOName  string
	ComputerMark game.PlayerMark // AI mode only, defaults to O
	Difficulty   string          // AI mode only, defaults to hard
}

// Session is the caller-owned state of a series of games. It is not safe for
// concurrent use.
type Session struct {
	ID    string
	Mode  Mode
	Names map[game.PlayerMark]string
	Game  *game.Game
	Score Scoreboard

	computer   game.PlayerMark
	difficulty string
	calculator MoveCalculator
	settings   Settings
}

// New creates a session and, if the computer opens, plays its first move.
func New(ctx context.Context, settings Settings, calculator MoveCalculator) (*Session, error) {
	switch settings.Mode {
	case "":
		settings.Mode = ModeAI
	case ModeAI, ModeTwoPlayer:
	default:
		return nil, fmt.Errorf("unknown session mode %q", settings.Mode)
	}
	if settings.Mode == ModeAI {
		if calculator == nil {
			return nil, errors.New("ai mode needs a move calculator")
		}
		if !settings.ComputerMark.Valid() {
			settings.ComputerMark = game.PlayerO
		}
		if settings.Difficulty == "" {
			settings.Difficulty = "hard"
		}
	} else {
		settings.ComputerMark = game.None
	}

	s := &Session{
		ID:         uuid.New().String(),
		Mode:       settings.Mode,
		computer:   settings.ComputerMark,
		difficulty: settings.Difficulty,
		calculator: calculator,
		settings:   settings,
	}
	s.resetNames()

	if err := s.Reset(ctx, false); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) resetNames() {
	x, o := s.settings.PlayerXName, s.settings.PlayerOName
	switch {
	case s.Mode == ModeTwoPlayer:
		x, o = defaultName(x, "Player 1"), defaultName(o, "Player 2")
	case s.computer == game.PlayerX:
		x, o = defaultName(x, "AI"), defaultName(o, "You")
	default:
		x, o = defaultName(x, "You"), defaultName(o, "AI")
	}
	s.Names = map[game.PlayerMark]string{game.PlayerX: x, game.PlayerO: o}
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// ComputerMark returns the computer's mark, or None in two-player mode.
func (s *Session) ComputerMark() game.PlayerMark {
	return s.computer
}

// Play applies the human move at (row, col). In AI mode the computer answers
// before Play returns, unless the human move ended the game.
func (s *Session) Play(ctx context.Context, row, col int) error {
	ctx, span := tracer.Start(ctx, "session.Play", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	if s.Game.IsOver() {
		span.SetStatus(codes.Error, "Game already finished")
		return apperror.ErrGameFinished
	}
	if s.Mode == ModeAI && s.Game.CurrentTurn == s.computer {
		span.SetStatus(codes.Error, "Not the player's turn")
		return apperror.ErrNotYourTurn
	}

	mark := s.Game.CurrentTurn
	if err := s.Game.Move(row, col); err != nil {
		slog.WarnContext(ctx, "invalid move from player", "session.id", s.ID, "player.mark", string(mark), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		return err
	}

	if s.finishIfOver(ctx) || s.Mode != ModeAI {
		return nil
	}
	if err := s.computerTurn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer move failed")
		return err
	}
	return nil
}

// computerTurn asks the calculator for a move and applies it.
func (s *Session) computerTurn(ctx context.Context) error {
	row, col, err := s.calculator.NextMove(ctx, game.BoardToSlice(s.Game.Board), s.computer, s.difficulty)
	if err != nil {
		return fmt.Errorf("failed to calculate computer move: %w", err)
	}
	if row == -1 && col == -1 {
		return nil
	}
	if err := s.Game.Move(row, col); err != nil {
		return fmt.Errorf("computer produced an illegal move (%d, %d): %w", row, col, err)
	}
	slog.DebugContext(ctx, "computer moved", "session.id", s.ID, "row", row, "col", col)
	s.finishIfOver(ctx)
	return nil
}

// finishIfOver updates the scoreboard once the game has ended.
func (s *Session) finishIfOver(ctx context.Context) bool {
	res := s.Game.Result()
	if !res.Finished() {
		return false
	}

	s.Score.Matches++
	switch res.Winner {
	case game.PlayerX:
		s.Score.X++
	case game.PlayerO:
		s.Score.O++
	default:
		s.Score.Draws++
	}
	slog.InfoContext(ctx, "game finished", "session.id", s.ID, "outcome", string(res.Outcome),
		"winner", string(res.Winner), "board", s.Game.Board.Key(), "matches", s.Score.Matches)
	return true
}

// Reset starts a new game with X to move. A full reset also clears the
// scoreboard and restores the player names given at creation.
func (s *Session) Reset(ctx context.Context, full bool) error {
	s.Game = game.NewGame(game.PlayerX)
	if full {
		s.Score = Scoreboard{}
		s.resetNames()
	}
	if s.Mode == ModeAI && s.computer == game.PlayerX {
		return s.computerTurn(ctx)
	}
	return nil
}

// Snapshot is a plain-data view of the session for presentation.
type Snapshot struct {
	ID      string              `json:"id"`
	Mode    Mode                `json:"mode"`
	Board   [][]game.PlayerMark `json:"board"`
	Next    game.PlayerMark     `json:"next,omitempty"`
	Result  game.Result         `json:"result"`
	PlayerX string              `json:"player_x"`
	PlayerO string              `json:"player_o"`
	Score   Scoreboard          `json:"score"`
}

// Snapshot copies the current state. The board slice does not alias the game.
func (s *Session) Snapshot() Snapshot {
	res := s.Game.Result()
	next := s.Game.CurrentTurn
	if res.Finished() {
		next = game.None
	}
	return Snapshot{
		ID:      s.ID,
		Mode:    s.Mode,
		Board:   game.BoardToSlice(s.Game.Board),
		Next:    next,
		Result:  res,
		PlayerX: s.Names[game.PlayerX],
		PlayerO: s.Names[game.PlayerO],
		Score:   s.Score,
	}
}

// IsWinningCell reports whether p belongs to the line that won the current game.
func (s *Session) IsWinningCell(p game.Position) bool {
	res := s.Game.Result()
	return res.Line != nil && res.Line.Contains(p)
}
