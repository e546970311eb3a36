package market

import "time"

// Token is a Solana token mint address. It is treated as an opaque
// identity key; no validation beyond being a non-empty identifier.
type Token = string

// WrappedSOL is the mint address of wrapped SOL, used to derive the
// SOL/USD rate from a DEX pair when the primary rate source is down.
const WrappedSOL = "So11111111111111111111111111111111111111112"

// Quote is a price/market snapshot for one token. Optional fields are
// pointers; a nil PriceSOL means "no provider could price this token"
// and must never be read as zero.
type Quote struct {
	Token Token

	PriceSOL *float64 // price in SOL
	PriceUSD *float64

	Name    string
	Symbol  string
	DexName string // attribution: which source answered

	PairAddress  string
	LiquidityUSD *float64
	Volume24hUSD *float64
	Change24hPct *float64
	MarketCapUSD *float64
	CreatedAt    *time.Time

	// SolUSD is the SOL/USD rate in effect when the quote was built,
	// 0 when the rate could not be resolved.
	SolUSD float64

	FetchedAt time.Time
}

// HasPrice reports whether the quote carries a usable SOL price. A
// literal 0 (drained pool, empty reserves) is unusable and counts as
// absent, the same as no provider answering.
func (q Quote) HasPrice() bool {
	return q.PriceSOL != nil && *q.PriceSOL > 0
}

// Price returns the SOL price, or 0 when absent. Callers must check
// HasPrice first; the zero return exists only for logging convenience.
func (q Quote) Price() float64 {
	if q.PriceSOL == nil {
		return 0
	}
	return *q.PriceSOL
}

// Float is a convenience for building optional float fields.
func Float(v float64) *float64 { return &v }
