package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/letbuildnow/solPaper/market"
)

// PumpFunURL is the public bonding-curve API.
const PumpFunURL = "https://frontend-api.pump.fun"

// PumpFun prices tokens that are still on their bonding curve. While a
// curve is active the AMM reserves are the ground truth, so this source
// outranks every indexed snapshot and terminates the chain outright.
// Migrated tokens (complete=true) fall through to the DEX sources.
type PumpFun struct {
	baseURL    string
	httpClient *http.Client
}

func NewPumpFun(baseURL string) *PumpFun {
	if baseURL == "" {
		baseURL = PumpFunURL
	}
	return &PumpFun{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (p *PumpFun) Name() string { return "pumpfun" }

type pumpCoin struct {
	Mint                 string  `json:"mint"`
	Complete             bool    `json:"complete"`
	VirtualSolReserves   int64   `json:"virtual_sol_reserves"`
	VirtualTokenReserves int64   `json:"virtual_token_reserves"`
	Name                 string  `json:"name"`
	Symbol               string  `json:"symbol"`
	MarketCap            float64 `json:"market_cap"` // denominated in SOL
	CreatedTimestamp     int64   `json:"created_timestamp"` // unix millis
}

func (p *PumpFun) FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (bool, error) {
	apiURL := fmt.Sprintf("%s/coins/%s", p.baseURL, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	// The frontend API rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}

	var coin pumpCoin
	if err := json.NewDecoder(resp.Body).Decode(&coin); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}

	// Only authoritative while the curve is active and funded. After
	// migration, or with either reserve drained to zero, the indexed
	// DEX pair is the better source.
	if coin.Mint == "" || coin.Complete || coin.VirtualTokenReserves <= 0 || coin.VirtualSolReserves <= 0 {
		return false, nil
	}

	// Reserve scaling: lamports for SOL (1e9), 6 decimals for the token.
	priceSOL := (float64(coin.VirtualSolReserves) / 1e9) / (float64(coin.VirtualTokenReserves) / 1e6)

	q.PriceSOL = &priceSOL
	q.Name = coin.Name
	q.Symbol = coin.Symbol
	q.DexName = "Pump.fun (Bonding Curve)"
	if q.SolUSD > 0 {
		q.PriceUSD = market.Float(priceSOL * q.SolUSD)
		q.MarketCapUSD = market.Float(coin.MarketCap * q.SolUSD)
	}
	if coin.CreatedTimestamp > 0 {
		t := time.UnixMilli(coin.CreatedTimestamp)
		q.CreatedAt = &t
	}

	return true, nil
}
