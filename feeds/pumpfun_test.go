package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letbuildnow/solPaper/market"
)

func TestPumpFunActiveCurve(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/mint123", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		json.NewEncoder(w).Encode(map[string]any{
			"mint":                   "mint123",
			"complete":               false,
			"virtual_sol_reserves":   30_000_000_000,     // 30 SOL in lamports
			"virtual_token_reserves": 1_000_000_000_000,  // 1M tokens at 6 decimals
			"name":                   "Doge Wif Hat",
			"symbol":                 "DWH",
			"market_cap":             150.0, // SOL
			"created_timestamp":      1717200000000,
		})
	}))
	defer server.Close()

	p := NewPumpFun(server.URL)
	q := market.Quote{Token: "mint123", SolUSD: 100}

	done, err := p.FetchQuote(context.Background(), "mint123", &q)
	require.NoError(t, err)
	require.True(t, done)

	// (30e9/1e9) / (1e12/1e6) = 30 / 1e6
	assert.InDelta(t, 30.0/1e6, *q.PriceSOL, 1e-15)
	assert.InDelta(t, 30.0/1e6*100, *q.PriceUSD, 1e-12)
	assert.InDelta(t, 150.0*100, *q.MarketCapUSD, 1e-9)
	assert.Equal(t, "DWH", q.Symbol)
	assert.Equal(t, "Pump.fun (Bonding Curve)", q.DexName)
	require.NotNil(t, q.CreatedAt)
}

func TestPumpFunMigratedCurveIsNotAuthoritative(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"mint":                   "mint123",
			"complete":               true,
			"virtual_sol_reserves":   30_000_000_000,
			"virtual_token_reserves": 1_000_000_000_000,
		})
	}))
	defer server.Close()

	p := NewPumpFun(server.URL)
	q := market.Quote{Token: "mint123"}

	done, err := p.FetchQuote(context.Background(), "mint123", &q)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Nil(t, q.PriceSOL)
}

func TestPumpFunDrainedReservesAreNotAuthoritative(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"mint":                   "mint123",
			"complete":               false,
			"virtual_sol_reserves":   0,
			"virtual_token_reserves": 1_000_000_000_000,
		})
	}))
	defer server.Close()

	p := NewPumpFun(server.URL)
	q := market.Quote{Token: "mint123"}

	done, err := p.FetchQuote(context.Background(), "mint123", &q)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Nil(t, q.PriceSOL)
}

func TestPumpFunNon200IsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPumpFun(server.URL)
	q := market.Quote{}

	done, err := p.FetchQuote(context.Background(), "unknown", &q)
	assert.False(t, done)
	assert.Error(t, err)
}

func TestPumpFunNoUSDWithoutRate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"mint":                   "mint123",
			"complete":               false,
			"virtual_sol_reserves":   1_000_000_000,
			"virtual_token_reserves": 1_000_000,
		})
	}))
	defer server.Close()

	p := NewPumpFun(server.URL)
	q := market.Quote{Token: "mint123"} // SolUSD = 0

	done, err := p.FetchQuote(context.Background(), "mint123", &q)
	require.NoError(t, err)
	require.True(t, done)
	assert.NotNil(t, q.PriceSOL)
	assert.Nil(t, q.PriceUSD)
	assert.Nil(t, q.MarketCapUSD)
}
