package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tictactoe-ai/internal/bot"
	"tictactoe-ai/internal/config"
	"tictactoe-ai/internal/db"
	"tictactoe-ai/internal/game"
	"tictactoe-ai/internal/logger"
	"tictactoe-ai/internal/repository"
	"tictactoe-ai/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; empty reads the environment only")
	selfPlay := flag.Int("selfplay", 10, "number of self-play games to run after solving")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Telemetry.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
		if err != nil {
			log.Fatalf("failed to initialize telemetry: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	if err := run(ctx, cfg, *selfPlay); err != nil {
		slog.ErrorContext(ctx, "solver failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, games int) error {
	var caches []bot.NamedCache

	// Initialize SQLite book
	var book repository.BookRepository
	if cfg.Book.Enabled {
		conn, err := db.LocalConnect(ctx, cfg.Book.Path)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := db.InitializeDB(ctx, conn); err != nil {
			return err
		}

		book = repository.NewBookRepository(conn)
		solved, err := bot.Solve(ctx, book)
		if err != nil {
			return fmt.Errorf("failed to solve positions: %w", err)
		}
		slog.InfoContext(ctx, "opening book written", "positions", solved, "path", cfg.Book.Path)
	}

	// Initialize Redis
	if cfg.Redis.Enabled {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.GetRedisAddr())
		if err != nil {
			return err
		}
		defer rdb.Close()

		moves := repository.NewMoveRepository(rdb, cfg.Redis.TTL)
		if book != nil {
			rows, err := book.All(ctx)
			if err != nil {
				return err
			}
			if err := moves.Warm(ctx, rows); err != nil {
				return err
			}
			slog.InfoContext(ctx, "move cache warmed", "entries", len(rows), "addr", cfg.Redis.GetRedisAddr())
		}
		caches = append(caches, bot.NamedCache{Name: "redis", Cache: moves})
	}
	if book != nil {
		caches = append(caches, bot.NamedCache{Name: "book", Cache: book})
	}

	calc, err := bot.NewCalculator(bot.Options{
		MediumRandomRate: cfg.Bot.MediumRandomRate,
		Pruning:          cfg.Bot.Pruning,
		Caches:           caches,
	})
	if err != nil {
		return err
	}

	return selfPlay(ctx, calc, cfg.Bot.Difficulty, games)
}

// selfPlay runs games and, at hard difficulty, fails if any of them is not a draw.
func selfPlay(ctx context.Context, calc *bot.Calculator, difficulty string, games int) error {
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}

	tally := map[string]int{}
	for i := range games {
		res, err := calc.SelfPlay(ctx, string(d))
		if err != nil {
			return err
		}
		key := string(res.Outcome)
		if res.Outcome == game.Win {
			key = string(res.Winner)
		}
		tally[key]++
		if d == bot.Hard && res.Outcome != game.Draw {
			return fmt.Errorf("self-play game %d at hard ended %s for %q", i+1, res.Outcome, res.Winner)
		}
	}

	slog.InfoContext(ctx, "self-play finished",
		"difficulty", d,
		"games", games,
		"x_wins", tally[string(game.PlayerX)],
		"o_wins", tally[string(game.PlayerO)],
		"draws", tally[string(game.Draw)],
	)
	return nil
}
