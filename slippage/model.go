// Package slippage turns a quoted price into a simulated execution
// price. Real fills rarely land on the maximum tolerated slippage, so
// the incurred fraction is drawn uniformly from [0, tolerance].
package slippage

import (
	"math/rand"
	"sync"
	"time"
)

// Model draws randomized slippage. The random source is injectable so
// tests can pin the draw. One model is shared across all users, so the
// draw is mutex-guarded; rand.Rand is not safe for concurrent use.
type Model struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a model seeded from the wall clock.
func New() *Model {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a model backed by the given source. Tests pass
// a fixed seed for reproducible draws.
func NewWithSource(src rand.Source) *Model {
	return &Model{rng: rand.New(src)}
}

// Apply returns the execution price for a trade at basePrice with the
// user's tolerance in percent. Buys pay more, sells receive less.
// appliedPct is the percentage actually drawn, in [0, tolerancePct],
// reported back to the caller for transparency.
func (m *Model) Apply(basePrice float64, isBuy bool, tolerancePct float64) (execPrice, appliedPct float64) {
	if tolerancePct < 0 {
		tolerancePct = 0
	}

	m.mu.Lock()
	draw := m.rng.Float64() * tolerancePct / 100
	m.mu.Unlock()

	if isBuy {
		execPrice = basePrice * (1 + draw)
	} else {
		execPrice = basePrice * (1 - draw)
	}
	return execPrice, draw * 100
}
