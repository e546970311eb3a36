package feeds

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/letbuildnow/solPaper/market"
)

// Aggregator runs the provider chain in fixed priority order and caches
// the result per token. Provider failures are soft: a dead upstream is
// logged and skipped, never surfaced to callers. The only terminal
// condition is a Quote whose PriceSOL is still nil after the whole
// chain ran.
type Aggregator struct {
	providers []Provider
	rates     *RateResolver
	cache     *Cache
	log       *zap.Logger
	now       func() time.Time
}

// Options configures an Aggregator. Zero values fall back to the public
// endpoints and the default 10s cache TTL.
type Options struct {
	Providers []Provider
	Rates     *RateResolver
	TTL       time.Duration
	Logger    *zap.Logger
}

// New builds an aggregator. With empty Options it wires the production
// chain: Pump.fun, DexScreener, Jupiter, Birdeye, in that order.
func New(opts Options) *Aggregator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	providers := opts.Providers
	rates := opts.Rates
	if providers == nil {
		jup := NewJupiter("")
		dex := NewDexScreener("")
		providers = []Provider{NewPumpFun(""), dex, jup, NewBirdeye("")}
		if rates == nil {
			rates = NewRateResolver(jup, dex, log)
		}
	}

	return &Aggregator{
		providers: providers,
		rates:     rates,
		cache:     NewCache(opts.TTL),
		log:       log,
		now:       time.Now,
	}
}

// GetQuote resolves a quote for one token. Total latency is bounded by
// the sum of provider timeouts; within one token the chain is strictly
// sequential. A cached result younger than the TTL short-circuits the
// network entirely.
func (a *Aggregator) GetQuote(ctx context.Context, token market.Token) market.Quote {
	if q, ok := a.cache.Get(token); ok {
		return q
	}

	q := market.Quote{
		Token:     token,
		FetchedAt: a.now(),
	}
	if a.rates != nil {
		q.SolUSD = a.rates.SolUSD(ctx)
	}

	for _, p := range a.providers {
		done, err := p.FetchQuote(ctx, token, &q)
		if err != nil {
			a.log.Warn("provider failed",
				zap.String("provider", p.Name()),
				zap.String("token", token),
				zap.Error(err))
			continue
		}
		if done {
			a.log.Debug("provider answered",
				zap.String("provider", p.Name()),
				zap.String("token", token),
				zap.Float64("price_sol", q.Price()))
			break
		}
	}

	// Negative results are cached too, so a dead token cannot hammer
	// the providers on every portfolio render.
	a.cache.Put(token, q)
	return q
}
