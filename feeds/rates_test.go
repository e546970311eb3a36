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

func TestRateResolverPrimary(t *testing.T) {
	t.Parallel()

	jupServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SOL", r.URL.Query().Get("ids"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"SOL": map[string]any{"price": 142.5}},
		})
	}))
	defer jupServer.Close()

	r := NewRateResolver(NewJupiter(jupServer.URL), NewDexScreener("http://127.0.0.1:0"), nil)
	assert.InDelta(t, 142.5, r.SolUSD(context.Background()), 1e-9)
}

func TestRateResolverFallsBackToWrappedSOLPair(t *testing.T) {
	t.Parallel()

	jupServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer jupServer.Close()

	dexServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/"+market.WrappedSOL, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"pairs": []map[string]any{
				{"priceUsd": "139.80"},
				{"priceUsd": "999.99"}, // fallback uses the first pair only
			},
		})
	}))
	defer dexServer.Close()

	r := NewRateResolver(NewJupiter(jupServer.URL), NewDexScreener(dexServer.URL), nil)
	assert.InDelta(t, 139.80, r.SolUSD(context.Background()), 1e-9)
}

func TestRateResolverBothDownYieldsZero(t *testing.T) {
	t.Parallel()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	r := NewRateResolver(NewJupiter(down.URL), NewDexScreener(down.URL), nil)
	assert.Equal(t, 0.0, r.SolUSD(context.Background()))
}

func TestJupiterTokenPrice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"mintX": map[string]any{"price": 3.25}},
		})
	}))
	defer server.Close()

	j := NewJupiter(server.URL)
	q := market.Quote{Token: "mintX", SolUSD: 130}

	done, err := j.FetchQuote(context.Background(), "mintX", &q)
	require.NoError(t, err)
	require.True(t, done)
	assert.InDelta(t, 3.25, *q.PriceUSD, 1e-12)
	assert.InDelta(t, 3.25/130, *q.PriceSOL, 1e-12)
	assert.Equal(t, "Jupiter Aggregated", q.DexName)
}

func TestJupiterUnknownToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	j := NewJupiter(server.URL)
	q := market.Quote{Token: "mintX", SolUSD: 130}

	done, err := j.FetchQuote(context.Background(), "mintX", &q)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Nil(t, q.PriceSOL)
}

func TestBirdeyePrice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "public", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "mintY", r.URL.Query().Get("address"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"value": 0.075},
		})
	}))
	defer server.Close()

	b := NewBirdeye(server.URL)
	q := market.Quote{Token: "mintY", SolUSD: 150}

	done, err := b.FetchQuote(context.Background(), "mintY", &q)
	require.NoError(t, err)
	require.True(t, done)
	assert.InDelta(t, 0.075, *q.PriceUSD, 1e-12)
	assert.InDelta(t, 0.075/150, *q.PriceSOL, 1e-15)
	assert.Equal(t, "Birdeye", q.DexName)
}
