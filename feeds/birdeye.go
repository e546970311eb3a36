package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/letbuildnow/solPaper/market"
)

// BirdeyeURL is the public price API, last resort in the chain.
const BirdeyeURL = "https://public-api.birdeye.so"

type Birdeye struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewBirdeye(baseURL string) *Birdeye {
	if baseURL == "" {
		baseURL = BirdeyeURL
	}
	return &Birdeye{
		baseURL:    baseURL,
		apiKey:     "public",
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (b *Birdeye) Name() string { return "birdeye" }

type birdeyePriceResponse struct {
	Data struct {
		Value *float64 `json:"value"`
	} `json:"data"`
}

func (b *Birdeye) FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (bool, error) {
	apiURL := fmt.Sprintf("%s/public/price?address=%s", b.baseURL, url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out birdeyePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if out.Data.Value == nil || *out.Data.Value <= 0 {
		return false, nil
	}

	q.PriceUSD = out.Data.Value
	q.DexName = "Birdeye"
	if q.SolUSD > 0 {
		q.PriceSOL = market.Float(*out.Data.Value / q.SolUSD)
		return true, nil
	}
	return false, nil
}
