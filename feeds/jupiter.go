package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/letbuildnow/solPaper/market"
)

// JupiterURL is the public price-aggregation API.
const JupiterURL = "https://price.jup.ag"

// Jupiter serves aggregated USD prices by token address. It is also the
// primary source for the SOL/USD rate (queried with the "SOL" id).
type Jupiter struct {
	baseURL    string
	httpClient *http.Client
}

func NewJupiter(baseURL string) *Jupiter {
	if baseURL == "" {
		baseURL = JupiterURL
	}
	return &Jupiter{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (j *Jupiter) Name() string { return "jupiter" }

type jupiterPriceResponse struct {
	Data map[string]struct {
		Price float64 `json:"price"`
	} `json:"data"`
}

// PriceUSD returns the aggregated USD price for an id, which is either
// a mint address or a well-known symbol like "SOL".
func (j *Jupiter) PriceUSD(ctx context.Context, id string) (float64, bool, error) {
	apiURL := fmt.Sprintf("%s/v4/price?ids=%s", j.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out jupiterPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, false, fmt.Errorf("decode response: %w", err)
	}

	entry, ok := out.Data[id]
	if !ok {
		return 0, false, nil
	}
	return entry.Price, true, nil
}

func (j *Jupiter) FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (bool, error) {
	usd, ok, err := j.PriceUSD(ctx, token)
	if err != nil {
		return false, err
	}
	if !ok || usd <= 0 {
		return false, nil
	}

	q.PriceUSD = &usd
	q.DexName = "Jupiter Aggregated"
	if q.SolUSD > 0 {
		q.PriceSOL = market.Float(usd / q.SolUSD)
		return true, nil
	}
	return false, nil
}
