package feeds

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/letbuildnow/solPaper/market"
)

// RateResolver resolves the SOL/USD rate needed to convert USD-only
// provider prices into SOL. Jupiter is primary; when it is down the
// rate is derived from the wrapped-SOL DexScreener pair. Both failing
// leaves the rate at 0 and callers skip USD-derived fields.
type RateResolver struct {
	jup *Jupiter
	dex *DexScreener
	log *zap.Logger
}

func NewRateResolver(jup *Jupiter, dex *DexScreener, log *zap.Logger) *RateResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateResolver{jup: jup, dex: dex, log: log}
}

func (r *RateResolver) SolUSD(ctx context.Context) float64 {
	usd, ok, err := r.jup.PriceUSD(ctx, "SOL")
	if err == nil && ok && usd > 0 {
		return usd
	}
	if err != nil {
		r.log.Warn("sol rate: jupiter failed", zap.Error(err))
	}

	pairs, err := r.dex.Pairs(ctx, market.WrappedSOL)
	if err != nil {
		r.log.Warn("sol rate: dexscreener fallback failed", zap.Error(err))
		return 0
	}
	if len(pairs) == 0 {
		return 0
	}
	usd, err = strconv.ParseFloat(pairs[0].PriceUSD, 64)
	if err != nil {
		r.log.Warn("sol rate: bad priceUsd in fallback pair", zap.Error(err))
		return 0
	}
	return usd
}
