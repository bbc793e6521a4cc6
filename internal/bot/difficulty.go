package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"tictactoe-ai/internal/apperror"
)

// Difficulty selects how strongly the computer plays.
type Difficulty string

const (
	Easy   Difficulty = "easy"   // always random
	Medium Difficulty = "medium" // random with probability Options.MediumRandomRate, optimal otherwise
	Hard   Difficulty = "hard"   // always optimal
)

// DefaultMediumRandomRate is the share of random moves at medium difficulty.
const DefaultMediumRandomRate = 0.5

// ParseDifficulty maps a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, s)
}

// Options configures the selectors built by NewSelectors.
type Options struct {
	MediumRandomRate float64
	Pruning          bool
	// Rand seeds the random selector. Nil uses the global generator.
	Rand *rand.Rand
	// Caches wrap the optimal selector, outermost first.
	Caches []NamedCache
}

// NamedCache labels a MoveCache for logging.
type NamedCache struct {
	Name  string
	Cache MoveCache
}

// NewSelectors builds one selector per difficulty. Easy and medium share the
// random source; medium and hard share the optimal chain.
func NewSelectors(opts Options) map[Difficulty]MoveSelector {
	var optimal MoveSelector = OptimalSelector{Pruning: opts.Pruning}
	for i := len(opts.Caches) - 1; i >= 0; i-- {
		c := opts.Caches[i]
		optimal = &CachedSelector{Name: c.Name, Cache: c.Cache, Next: optimal}
	}

	random := NewRandomSelector(opts.Rand)
	return map[Difficulty]MoveSelector{
		Easy:   random,
		Medium: &MixSelector{Rate: opts.MediumRandomRate, Random: random, Base: optimal},
		Hard:   optimal,
	}
}
