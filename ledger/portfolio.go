package ledger

import (
	"time"

	"github.com/letbuildnow/solPaper/market"
)

const (
	// DefaultStartingBalance is the virtual SOL every new portfolio
	// starts with, and the baseline for percentage returns.
	DefaultStartingBalance = 20.0

	// DefaultFundCap bounds a single fund call.
	DefaultFundCap = 20.0

	// DustThreshold is the residual position size below which a
	// position is considered closed and removed. The comparison is
	// strict less-than: a residual of exactly 1e-4 survives.
	DustThreshold = 1e-4

	// DefaultSlippagePct is the slippage tolerance for users who never
	// touched their settings.
	DefaultSlippagePct = 1.0
)

type TradeKind string

const (
	TradeBuy  TradeKind = "BUY"
	TradeSell TradeKind = "SELL"
)

// Trade is one executed simulated order. History entries are
// append-only and never rewritten.
type Trade struct {
	ID         string       `json:"id"`
	Kind       TradeKind    `json:"type"`
	Token      market.Token `json:"token"`
	Amount     float64      `json:"amount"`    // tokens bought or sold
	ExecPrice  float64      `json:"price"`     // SOL per token after slippage
	ValueSOL   float64      `json:"value_sol"` // SOL spent or received
	RealizedPL float64      `json:"profit,omitempty"`
	Dex        string       `json:"dex,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Position is an open holding with its weighted-average cost basis.
type Position struct {
	Amount   float64 `json:"amount"`
	AvgPrice float64 `json:"avg_price"` // SOL per token
	Symbol   string  `json:"symbol"`
}

// Portfolio is one user's complete paper-trading state.
type Portfolio struct {
	Balance   float64                        `json:"balance"`
	Positions map[market.Token]Position      `json:"positions"`
	History   []Trade                        `json:"history"`
}

func newPortfolio(balance float64) *Portfolio {
	return &Portfolio{
		Balance:   balance,
		Positions: make(map[market.Token]Position),
	}
}

func (p *Portfolio) clone() Portfolio {
	out := Portfolio{
		Balance:   p.Balance,
		Positions: make(map[market.Token]Position, len(p.Positions)),
		History:   make([]Trade, len(p.History)),
	}
	for tok, pos := range p.Positions {
		out.Positions[tok] = pos
	}
	copy(out.History, p.History)
	return out
}

// Settings are per-user trading preferences.
type Settings struct {
	SlippagePct float64 `json:"slippage"`
}

// Activity tracks per-user command usage for the admin analytics.
type Activity struct {
	Username   string         `json:"username,omitempty"`
	JoinedAt   time.Time      `json:"joined_at"`
	LastActive time.Time      `json:"last_active"`
	Commands   map[string]int `json:"commands"`
}

func (a *Activity) clone() Activity {
	out := *a
	out.Commands = make(map[string]int, len(a.Commands))
	for k, v := range a.Commands {
		out.Commands[k] = v
	}
	return out
}

// Snapshot is the full mutable state handed to the persistence store.
// Integer user ids become string keys in the JSON document and are
// reconstructed on load by encoding/json's integer-keyed map handling.
type Snapshot struct {
	Portfolios map[int64]*Portfolio      `json:"portfolios"`
	Watchlists map[int64][]market.Token  `json:"watchlists"`
	Settings   map[int64]Settings        `json:"user_settings"`
	Activity   map[int64]*Activity       `json:"user_stats"`
}

// Normalize defaults any absent collection to empty so older or
// partially-populated documents load cleanly.
func (s *Snapshot) Normalize() {
	if s.Portfolios == nil {
		s.Portfolios = make(map[int64]*Portfolio)
	}
	if s.Watchlists == nil {
		s.Watchlists = make(map[int64][]market.Token)
	}
	if s.Settings == nil {
		s.Settings = make(map[int64]Settings)
	}
	if s.Activity == nil {
		s.Activity = make(map[int64]*Activity)
	}
	for _, p := range s.Portfolios {
		if p.Positions == nil {
			p.Positions = make(map[market.Token]Position)
		}
	}
	for _, a := range s.Activity {
		if a.Commands == nil {
			a.Commands = make(map[string]int)
		}
	}
}
