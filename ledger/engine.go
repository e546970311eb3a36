// Package ledger owns all per-user paper-trading state: cash balances,
// open positions with weighted-average cost, and the append-only trade
// history. It is the only component allowed to mutate portfolios.
package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/letbuildnow/solPaper/journal"
	"github.com/letbuildnow/solPaper/market"
	"github.com/letbuildnow/solPaper/pkg/id"
	"github.com/letbuildnow/solPaper/slippage"
)

// Store persists the full ledger snapshot. Implementations must be
// safe for concurrent calls; the engine fires saves from goroutines.
type Store interface {
	Save(Snapshot) error
}

// Engine executes simulated trades against live quotes.
//
// Locking: e.mu guards the shared maps. A per-user mutex additionally
// wraps each whole operation (price fetch included) so two concurrent
// commands from the same user cannot interleave between the balance
// check and the mutation. Operations for different users only contend
// on the short e.mu sections.
type Engine struct {
	mu         sync.Mutex
	portfolios map[int64]*Portfolio
	watchlists map[int64][]market.Token
	settings   map[int64]Settings
	activity   map[int64]*Activity
	userLocks  map[int64]*sync.Mutex

	// persistMu serializes snapshot-and-save pairs so asynchronous
	// saves cannot write an older snapshot over a newer one.
	persistMu sync.Mutex

	quotes  market.QuoteSource
	slip    *slippage.Model
	journal journal.Journal
	store   Store
	log     *zap.Logger
	now     func() time.Time

	startingBalance float64
	fundCap         float64
}

// Options configures a ledger engine. Quotes is required; everything
// else has a sensible default.
type Options struct {
	Quotes   market.QuoteSource
	Slippage *slippage.Model
	Journal  journal.Journal
	Store    Store
	Logger   *zap.Logger

	StartingBalance float64
	FundCap         float64

	// State is the snapshot restored at startup; nil starts empty.
	State *Snapshot
}

func NewEngine(opts Options) *Engine {
	if opts.Slippage == nil {
		opts.Slippage = slippage.New()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.StartingBalance <= 0 {
		opts.StartingBalance = DefaultStartingBalance
	}
	if opts.FundCap <= 0 {
		opts.FundCap = DefaultFundCap
	}

	state := opts.State
	if state == nil {
		state = &Snapshot{}
	}
	state.Normalize()

	return &Engine{
		portfolios:      state.Portfolios,
		watchlists:      state.Watchlists,
		settings:        state.Settings,
		activity:        state.Activity,
		userLocks:       make(map[int64]*sync.Mutex),
		quotes:          opts.Quotes,
		slip:            opts.Slippage,
		journal:         opts.Journal,
		store:           opts.Store,
		log:             opts.Logger,
		now:             time.Now,
		startingBalance: opts.StartingBalance,
		fundCap:         opts.FundCap,
	}
}

func (e *Engine) StartingBalance() float64 { return e.startingBalance }

func (e *Engine) userLock(user int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lk, ok := e.userLocks[user]
	if !ok {
		lk = &sync.Mutex{}
		e.userLocks[user] = lk
	}
	return lk
}

// ensureLocked creates the user's portfolio if absent. Caller holds e.mu.
func (e *Engine) ensureLocked(user int64) *Portfolio {
	p, ok := e.portfolios[user]
	if !ok {
		p = newPortfolio(e.startingBalance)
		e.portfolios[user] = p
	}
	return p
}

// EnsurePortfolio creates the user's portfolio at the starting balance
// if it does not exist yet. Idempotent; reports whether it was created.
func (e *Engine) EnsurePortfolio(user int64) bool {
	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	_, existed := e.portfolios[user]
	e.ensureLocked(user)
	e.mu.Unlock()

	if !existed {
		e.saveAsync()
	}
	return !existed
}

// BuyResult reports a completed buy back to the command layer.
type BuyResult struct {
	TradeID       string
	Token         market.Token
	Symbol        string
	TokensBought  float64
	ExecPrice     float64
	SlippagePct   float64
	SpentSOL      float64
	BalanceBefore float64
	BalanceAfter  float64
	Dex           string
	Position      Position
}

// Buy spends amountSOL of the user's balance on the token at the live
// quote plus slippage. The balance drops by exactly amountSOL
// regardless of the execution price.
func (e *Engine) Buy(ctx context.Context, user int64, token market.Token, amountSOL float64) (BuyResult, error) {
	if amountSOL <= 0 {
		return BuyResult{}, ErrInvalidAmount
	}

	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	p := e.ensureLocked(user)
	balance := p.Balance
	tol := e.slippageTolLocked(user)
	e.mu.Unlock()

	if amountSOL > balance {
		return BuyResult{}, ErrInsufficientBalance
	}

	q := e.quotes.GetQuote(ctx, token)
	if !q.HasPrice() {
		return BuyResult{}, ErrQuoteUnavailable
	}

	execPrice, applied := e.slip.Apply(q.Price(), true, tol)
	tokens := amountSOL / execPrice

	trade := Trade{
		ID:        id.New(),
		Kind:      TradeBuy,
		Token:     token,
		Amount:    tokens,
		ExecPrice: execPrice,
		ValueSOL:  amountSOL,
		Dex:       q.DexName,
		Timestamp: e.now(),
	}

	e.mu.Lock()
	p.Balance -= amountSOL

	pos, held := p.Positions[token]
	if held {
		total := pos.Amount + tokens
		pos.AvgPrice = (pos.Amount*pos.AvgPrice + tokens*execPrice) / total
		pos.Amount = total
	} else {
		pos = Position{Amount: tokens, AvgPrice: execPrice}
	}
	if q.Symbol != "" {
		pos.Symbol = q.Symbol
	}
	p.Positions[token] = pos
	p.History = append(p.History, trade)

	res := BuyResult{
		TradeID:       trade.ID,
		Token:         token,
		Symbol:        pos.Symbol,
		TokensBought:  tokens,
		ExecPrice:     execPrice,
		SlippagePct:   applied,
		SpentSOL:      amountSOL,
		BalanceBefore: balance,
		BalanceAfter:  p.Balance,
		Dex:           q.DexName,
		Position:      pos,
	}
	e.mu.Unlock()

	e.recordTrade(user, trade, pos.Symbol)
	e.saveAsync()
	return res, nil
}

// SellResult reports a completed sell back to the command layer.
type SellResult struct {
	TradeID       string
	Token         market.Token
	Symbol        string
	TokensSold    float64
	ExecPrice     float64
	SlippagePct   float64
	ProceedsSOL   float64
	RealizedPL    float64
	RealizedPct   float64
	BalanceBefore float64
	BalanceAfter  float64
	Dex           string
	Remaining     Position
	Closed        bool
}

// Sell liquidates part or all of a position at the live quote minus
// slippage. Realized profit is measured against the weighted-average
// cost basis. Residuals under DustThreshold close the position.
func (e *Engine) Sell(ctx context.Context, user int64, token market.Token, sel SellAmount) (SellResult, error) {
	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	p := e.ensureLocked(user)
	pos, held := p.Positions[token]
	balance := p.Balance
	tol := e.slippageTolLocked(user)
	e.mu.Unlock()

	if !held {
		return SellResult{}, ErrNoSuchPosition
	}

	amount, err := sel.resolve(pos.Amount)
	if err != nil {
		return SellResult{}, err
	}

	q := e.quotes.GetQuote(ctx, token)
	if !q.HasPrice() {
		return SellResult{}, ErrQuoteUnavailable
	}

	execPrice, applied := e.slip.Apply(q.Price(), false, tol)
	proceeds := amount * execPrice
	realized := (execPrice - pos.AvgPrice) * amount
	realizedPct := 0.0
	if pos.AvgPrice > 0 {
		realizedPct = (execPrice/pos.AvgPrice - 1) * 100
	}

	trade := Trade{
		ID:         id.New(),
		Kind:       TradeSell,
		Token:      token,
		Amount:     amount,
		ExecPrice:  execPrice,
		ValueSOL:   proceeds,
		RealizedPL: realized,
		Dex:        q.DexName,
		Timestamp:  e.now(),
	}

	sym := symbolOr(q.Symbol, pos.Symbol)

	e.mu.Lock()
	p.Balance += proceeds
	pos.Amount -= amount

	closed := pos.Amount < DustThreshold
	if closed {
		delete(p.Positions, token)
		pos = Position{}
	} else {
		p.Positions[token] = pos
	}
	p.History = append(p.History, trade)

	res := SellResult{
		TradeID:       trade.ID,
		Token:         token,
		Symbol:        sym,
		TokensSold:    amount,
		ExecPrice:     execPrice,
		SlippagePct:   applied,
		ProceedsSOL:   proceeds,
		RealizedPL:    realized,
		RealizedPct:   realizedPct,
		BalanceBefore: balance,
		BalanceAfter:  p.Balance,
		Dex:           q.DexName,
		Remaining:     pos,
		Closed:        closed,
	}
	e.mu.Unlock()

	e.recordTrade(user, trade, res.Symbol)
	e.saveAsync()
	return res, nil
}

// Fund credits virtual SOL to the user's balance, capped per call.
func (e *Engine) Fund(user int64, amount float64) (float64, error) {
	if amount <= 0 || amount > e.fundCap {
		return 0, ErrInvalidAmount
	}

	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	p := e.ensureLocked(user)
	p.Balance += amount
	balance := p.Balance
	e.mu.Unlock()

	e.saveAsync()
	return balance, nil
}

// Reset replaces the user's portfolio with a fresh one at the starting
// balance, discarding positions and history. Watchlist and settings
// survive a reset.
func (e *Engine) Reset(user int64) {
	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	e.portfolios[user] = newPortfolio(e.startingBalance)
	e.mu.Unlock()

	e.saveAsync()
}

// Portfolio returns a copy of the user's portfolio.
func (e *Engine) Portfolio(user int64) (Portfolio, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.portfolios[user]
	if !ok {
		return Portfolio{}, false
	}
	return p.clone(), true
}

// History returns the user's latest n trades, newest last. n <= 0
// returns everything.
func (e *Engine) History(user int64, n int) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.portfolios[user]
	if !ok {
		return nil
	}
	h := p.History
	if n > 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	out := make([]Trade, len(h))
	copy(out, h)
	return out
}

// Users lists every user with a portfolio.
func (e *Engine) Users() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int64, 0, len(e.portfolios))
	for u := range e.portfolios {
		out = append(out, u)
	}
	return out
}

// HeldTokens returns the union of tokens held across all portfolios.
func (e *Engine) HeldTokens() []market.Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	seen := make(map[market.Token]struct{})
	var out []market.Token
	for _, p := range e.portfolios {
		for tok := range p.Positions {
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				out = append(out, tok)
			}
		}
	}
	return out
}

// Watch adds a token to the user's watchlist; reports whether it was
// newly added.
func (e *Engine) Watch(user int64, token market.Token) bool {
	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	for _, t := range e.watchlists[user] {
		if t == token {
			e.mu.Unlock()
			return false
		}
	}
	e.watchlists[user] = append(e.watchlists[user], token)
	e.mu.Unlock()

	e.saveAsync()
	return true
}

// Watchlist returns a copy of the user's watchlist in insertion order.
func (e *Engine) Watchlist(user int64) []market.Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	wl := e.watchlists[user]
	out := make([]market.Token, len(wl))
	copy(out, wl)
	return out
}

// Settings returns the user's settings, defaulted when never set.
func (e *Engine) Settings(user int64) Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settingsLocked(user)
}

func (e *Engine) settingsLocked(user int64) Settings {
	s, ok := e.settings[user]
	if !ok {
		return Settings{SlippagePct: DefaultSlippagePct}
	}
	return s
}

func (e *Engine) slippageTolLocked(user int64) float64 {
	return e.settingsLocked(user).SlippagePct
}

// SetSlippage updates the user's slippage tolerance in percent.
func (e *Engine) SetSlippage(user int64, pct float64) error {
	if pct < 0 || pct > 100 {
		return ErrInvalidAmount
	}

	lk := e.userLock(user)
	lk.Lock()
	defer lk.Unlock()

	e.mu.Lock()
	e.settings[user] = Settings{SlippagePct: pct}
	e.mu.Unlock()

	e.saveAsync()
	return nil
}

// LogActivity records a command invocation for the admin analytics.
func (e *Engine) LogActivity(user int64, username, command string) {
	now := e.now()

	e.mu.Lock()
	a, ok := e.activity[user]
	if !ok {
		a = &Activity{
			JoinedAt: now,
			Commands: make(map[string]int),
		}
		e.activity[user] = a
	}
	a.LastActive = now
	if username != "" {
		a.Username = username
	}
	a.Commands[command]++
	e.mu.Unlock()
}

// ActivitySnapshot returns a copy of all user activity records.
func (e *Engine) ActivitySnapshot() map[int64]Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int64]Activity, len(e.activity))
	for u, a := range e.activity {
		out[u] = a.clone()
	}
	return out
}

func (e *Engine) recordTrade(user int64, t Trade, symbol string) {
	err := e.journal.RecordTrade(journal.TradeRecord{
		TradeID:    t.ID,
		UserID:     user,
		Kind:       string(t.Kind),
		Token:      t.Token,
		Symbol:     symbol,
		Amount:     t.Amount,
		ExecPrice:  t.ExecPrice,
		ValueSOL:   t.ValueSOL,
		RealizedPL: t.RealizedPL,
		Dex:        t.Dex,
		Time:       t.Timestamp,
	})
	if err != nil {
		e.log.Error("journal trade failed", zap.String("trade_id", t.ID), zap.Error(err))
	}
}

// snapshot deep-copies the full state for the persistence store.
func (e *Engine) snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Portfolios: make(map[int64]*Portfolio, len(e.portfolios)),
		Watchlists: make(map[int64][]market.Token, len(e.watchlists)),
		Settings:   make(map[int64]Settings, len(e.settings)),
		Activity:   make(map[int64]*Activity, len(e.activity)),
	}
	for u, p := range e.portfolios {
		cp := p.clone()
		s.Portfolios[u] = &cp
	}
	for u, wl := range e.watchlists {
		cp := make([]market.Token, len(wl))
		copy(cp, wl)
		s.Watchlists[u] = cp
	}
	for u, st := range e.settings {
		s.Settings[u] = st
	}
	for u, a := range e.activity {
		ca := a.clone()
		s.Activity[u] = &ca
	}
	return s
}

// saveAsync persists the current state without blocking the caller.
// A failed save is logged and the in-memory state stays authoritative
// until the next mutation triggers another attempt.
func (e *Engine) saveAsync() {
	if e.store == nil {
		return
	}
	go func() {
		if err := e.persist(); err != nil {
			e.log.Error("persist ledger state failed", zap.Error(err))
		}
	}()
}

// persist snapshots and saves under one lock. Taking the snapshot
// inside the critical section means whichever goroutine writes last
// always persists the newest state; a stale snapshot can never
// overwrite a fresher one.
func (e *Engine) persist() error {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()
	return e.store.Save(e.snapshot())
}

// Close flushes the state synchronously. The journal is owned by the
// caller and closed separately.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.persist()
}

func symbolOr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
