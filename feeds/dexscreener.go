package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/letbuildnow/solPaper/market"
)

// DexScreenerURL is the public pair-indexing API.
const DexScreenerURL = "https://api.dexscreener.com"

// DexScreener is the primary source for migrated tokens. It indexes
// every trading pair for a token; the pair with the deepest USD
// liquidity carries the most trustworthy price.
type DexScreener struct {
	baseURL    string
	httpClient *http.Client
}

func NewDexScreener(baseURL string) *DexScreener {
	if baseURL == "" {
		baseURL = DexScreenerURL
	}
	return &DexScreener{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (d *DexScreener) Name() string { return "dexscreener" }

type dexPair struct {
	BaseToken struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string   `json:"priceUsd"`
	FDV       *float64 `json:"fdv"`
	Liquidity struct {
		USD *float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 *float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 *float64 `json:"h24"`
	} `json:"priceChange"`
	DexID         string `json:"dexId"`
	PairAddress   string `json:"pairAddress"`
	PairCreatedAt int64  `json:"pairCreatedAt"` // unix millis
}

type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// Pairs fetches all indexed trading pairs for a token.
func (d *DexScreener) Pairs(ctx context.Context, token market.Token) ([]dexPair, error) {
	apiURL := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out dexPairsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Pairs, nil
}

func (d *DexScreener) FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (bool, error) {
	pairs, err := d.Pairs(ctx, token)
	if err != nil {
		return false, err
	}
	if len(pairs) == 0 {
		return false, nil
	}

	// Deepest liquidity wins; ties keep the first pair encountered.
	best := pairs[0]
	for _, p := range pairs[1:] {
		if liqUSD(p) > liqUSD(best) {
			best = p
		}
	}

	q.Name = best.BaseToken.Name
	q.Symbol = best.BaseToken.Symbol
	q.DexName = best.DexID
	q.PairAddress = best.PairAddress
	q.MarketCapUSD = best.FDV
	q.LiquidityUSD = best.Liquidity.USD
	q.Volume24hUSD = best.Volume.H24
	q.Change24hPct = best.PriceChange.H24
	if best.PairCreatedAt > 0 {
		t := time.UnixMilli(best.PairCreatedAt)
		q.CreatedAt = &t
	}

	usd, err := strconv.ParseFloat(best.PriceUSD, 64)
	if err != nil {
		return false, fmt.Errorf("parse priceUsd %q: %w", best.PriceUSD, err)
	}
	// A drained pool reports a literal 0; that is "no price", not an
	// answer, and the chain keeps going.
	if usd <= 0 {
		return false, nil
	}
	q.PriceUSD = &usd

	// Without a SOL/USD rate the SOL price stays absent and the chain
	// keeps going, even though the metadata above is kept.
	if q.SolUSD > 0 {
		q.PriceSOL = market.Float(usd / q.SolUSD)
		return true, nil
	}
	return false, nil
}

func liqUSD(p dexPair) float64 {
	if p.Liquidity.USD == nil {
		return 0
	}
	return *p.Liquidity.USD
}
