// Package stats aggregates across users: the leaderboard, per-user
// trading statistics, and the admin-only usage analytics.
package stats

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/letbuildnow/solPaper/journal"
	"github.com/letbuildnow/solPaper/ledger"
	"github.com/letbuildnow/solPaper/market"
)

// ErrUnauthorized rejects admin operations from non-admin callers. The
// message deliberately reveals nothing about what was requested.
var ErrUnauthorized = errors.New("unauthorized")

type Engine struct {
	ledger  *ledger.Engine
	quotes  market.QuoteSource
	journal journal.Journal
	admins  map[int64]struct{}
	log     *zap.Logger
	now     func() time.Time
}

// Options configures a stats engine. AdminIDs is the full set of
// identities allowed to call AdminAnalytics.
type Options struct {
	Ledger   *ledger.Engine
	Quotes   market.QuoteSource
	Journal  journal.Journal
	AdminIDs []int64
	Logger   *zap.Logger
}

func NewEngine(opts Options) *Engine {
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Engine{
		ledger:  opts.Ledger,
		quotes:  opts.Quotes,
		journal: opts.Journal,
		admins:  admins,
		log:     opts.Logger,
		now:     time.Now,
	}
}

// fetchPrices resolves SOL prices for a token set with one concurrent
// task per token. A token whose chain fails is simply absent from the
// result; it never fails the batch.
func (e *Engine) fetchPrices(ctx context.Context, tokens []market.Token) map[market.Token]float64 {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		prices = make(map[market.Token]float64, len(tokens))
	)
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok market.Token) {
			defer wg.Done()
			q := e.quotes.GetQuote(ctx, tok)
			if !q.HasPrice() {
				return
			}
			mu.Lock()
			prices[tok] = q.Price()
			mu.Unlock()
		}(tok)
	}
	wg.Wait()
	return prices
}

// equity values a portfolio at live prices, falling back to each
// position's average cost when its price is unavailable.
func equity(p ledger.Portfolio, prices map[market.Token]float64) float64 {
	total := p.Balance
	for tok, pos := range p.Positions {
		price, ok := prices[tok]
		if !ok {
			price = pos.AvgPrice
		}
		total += pos.Amount * price
	}
	return total
}

type LeaderboardEntry struct {
	UserID    int64
	Equity    float64
	ReturnPct float64 // relative to the starting balance
}

// Leaderboard ranks every user by total equity, descending. Equal
// equities are ordered by ascending user id so the ranking is stable.
func (e *Engine) Leaderboard(ctx context.Context) []LeaderboardEntry {
	prices := e.fetchPrices(ctx, e.ledger.HeldTokens())
	start := e.ledger.StartingBalance()
	now := e.now()

	var out []LeaderboardEntry
	for _, user := range e.ledger.Users() {
		p, ok := e.ledger.Portfolio(user)
		if !ok {
			continue
		}
		eq := equity(p, prices)
		out = append(out, LeaderboardEntry{
			UserID:    user,
			Equity:    eq,
			ReturnPct: (eq/start - 1) * 100,
		})

		if err := e.journal.RecordEquity(journal.EquitySnapshot{
			UserID:  user,
			Time:    now,
			Balance: p.Balance,
			Equity:  eq,
		}); err != nil {
			e.log.Error("journal equity failed", zap.Int64("user", user), zap.Error(err))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Equity != out[j].Equity {
			return out[i].Equity > out[j].Equity
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

type UserStats struct {
	TotalTrades int
	Buys        int
	Sells       int
	Wins        int
	Losses      int
	WinRatePct  float64 // among SELL trades with positive realized P/L
	RealizedPL  float64
	Equity      float64
	ReturnPct   float64
}

// UserStats folds a user's trade history and values their current
// portfolio with the same live-price resolution as the leaderboard.
func (e *Engine) UserStats(ctx context.Context, user int64) (UserStats, bool) {
	p, ok := e.ledger.Portfolio(user)
	if !ok {
		return UserStats{}, false
	}

	var s UserStats
	for _, t := range p.History {
		s.TotalTrades++
		switch t.Kind {
		case ledger.TradeBuy:
			s.Buys++
		case ledger.TradeSell:
			s.Sells++
			s.RealizedPL += t.RealizedPL
			if t.RealizedPL > 0 {
				s.Wins++
			} else if t.RealizedPL < 0 {
				s.Losses++
			}
		}
	}
	if s.Sells > 0 {
		s.WinRatePct = float64(s.Wins) / float64(s.Sells) * 100
	}

	tokens := make([]market.Token, 0, len(p.Positions))
	for tok := range p.Positions {
		tokens = append(tokens, tok)
	}
	prices := e.fetchPrices(ctx, tokens)
	s.Equity = equity(p, prices)
	s.ReturnPct = (s.Equity/e.ledger.StartingBalance() - 1) * 100

	return s, true
}

// WatchlistQuotes fetches live quotes for the user's watchlist, one
// concurrent task per token, preserving watchlist order.
func (e *Engine) WatchlistQuotes(ctx context.Context, user int64) []market.Quote {
	tokens := e.ledger.Watchlist(user)
	out := make([]market.Quote, len(tokens))

	var wg sync.WaitGroup
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok market.Token) {
			defer wg.Done()
			out[i] = e.quotes.GetQuote(ctx, tok)
		}(i, tok)
	}
	wg.Wait()
	return out
}
