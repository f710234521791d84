// Package lottery layers random number generation and draw batching on
// top of a sortition registry.
package lottery

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rhartert/sortition-go/sortition"
)

type Config struct {
	// Seed initializes the lottery's random number generator. Two
	// lotteries with the same seed over identical registries issue the
	// same sequence of winners.
	Seed int64
}

// Lottery draws winners from the trees of a registry using its own
// random number generator.
//
// The generator is math/rand. Callers that need cryptographically
// suitable draws should generate their own numbers and hand them to the
// registry directly.
type Lottery struct {
	Reg *sortition.Registry
	Cfg Config

	rng *rand.Rand
}

// New returns a lottery drawing from the trees of reg.
func New(reg *sortition.Registry, cfg Config) *Lottery {
	return &Lottery{
		Reg: reg,
		Cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Draw selects one identifier from the tree under key with probability
// proportional to its stake.
func (l *Lottery) Draw(key string) (uuid.UUID, error) {
	return l.Reg.Draw(key, l.rng.Uint64())
}

// DrawN selects n identifiers with replacement: the same identifier can
// win several times.
func (l *Lottery) DrawN(key string, n int) ([]uuid.UUID, error) {
	winners := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id, err := l.Reg.Draw(key, l.rng.Uint64())
		if err != nil {
			return nil, err
		}
		winners = append(winners, id)
	}
	return winners, nil
}

// DrawDistinct selects up to n distinct identifiers without
// replacement. Fewer than n winners are returned if the tree has fewer
// active stakes.
func (l *Lottery) DrawDistinct(key string, n int) ([]uuid.UUID, error) {
	nums := make([]uint64, n)
	for i := range nums {
		nums[i] = l.rng.Uint64()
	}
	return l.Reg.DrawDistinct(key, nums)
}
