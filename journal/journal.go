// Package journal is the durable append-only log of executed paper
// trades and equity snapshots. It complements the portfolio snapshot:
// the snapshot is the authoritative live state, the journal is the
// flat record nothing ever rewrites.
package journal

import (
	"time"

	"github.com/letbuildnow/solPaper/market"
)

type TradeRecord struct {
	TradeID    string
	UserID     int64
	Kind       string // BUY or SELL
	Token      market.Token
	Symbol     string
	Amount     float64 // tokens
	ExecPrice  float64 // SOL per token
	ValueSOL   float64
	RealizedPL float64 // SELL only
	Dex        string
	Time       time.Time
}

type EquitySnapshot struct {
	UserID  int64
	Time    time.Time
	Balance float64
	Equity  float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when no journal is configured.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }

func (Nop) RecordEquity(EquitySnapshot) error { return nil }

func (Nop) Close() error { return nil }
