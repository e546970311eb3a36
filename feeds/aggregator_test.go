package feeds

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letbuildnow/solPaper/market"
)

// stubProvider scripts one provider in the chain.
type stubProvider struct {
	name  string
	calls atomic.Int64
	fetch func(q *market.Quote) (bool, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (bool, error) {
	s.calls.Add(1)
	if s.fetch == nil {
		return false, nil
	}
	return s.fetch(q)
}

func failing(name string) *stubProvider {
	return &stubProvider{name: name, fetch: func(*market.Quote) (bool, error) {
		return false, errors.New("connection refused")
	}}
}

func answering(name string, price float64) *stubProvider {
	return &stubProvider{name: name, fetch: func(q *market.Quote) (bool, error) {
		q.PriceSOL = market.Float(price)
		q.DexName = name
		return true, nil
	}}
}

func TestChainStopsAtFirstAnswer(t *testing.T) {
	t.Parallel()

	first := answering("first", 0.001)
	second := answering("second", 0.999)
	a := New(Options{Providers: []Provider{first, second}})

	q := a.GetQuote(context.Background(), "tok")
	require.True(t, q.HasPrice())
	assert.Equal(t, 0.001, q.Price())
	assert.Equal(t, "first", q.DexName)
	assert.EqualValues(t, 0, second.calls.Load())
}

func TestChainSurvivesFailingProviders(t *testing.T) {
	t.Parallel()

	p1 := failing("p1")
	p2 := failing("p2")
	p3 := answering("p3", 0.42)
	a := New(Options{Providers: []Provider{p1, p2, p3}})

	q := a.GetQuote(context.Background(), "tok")
	require.True(t, q.HasPrice())
	assert.Equal(t, 0.42, q.Price())
	assert.Equal(t, "p3", q.DexName)
}

func TestChainExhaustedYieldsAbsentPrice(t *testing.T) {
	t.Parallel()

	a := New(Options{Providers: []Provider{failing("p1"), failing("p2")}})

	q := a.GetQuote(context.Background(), "tok")
	assert.False(t, q.HasPrice())
	assert.Equal(t, "tok", q.Token)
	assert.False(t, q.FetchedAt.IsZero())
}

func TestPartialFillCarriesThroughChain(t *testing.T) {
	t.Parallel()

	// First provider knows metadata and the USD price but cannot price
	// in SOL; the next one resolves the SOL price.
	meta := &stubProvider{name: "meta", fetch: func(q *market.Quote) (bool, error) {
		q.Symbol = "WIF"
		q.PriceUSD = market.Float(2.5)
		return false, nil
	}}
	a := New(Options{Providers: []Provider{meta, answering("px", 0.0125)}})

	q := a.GetQuote(context.Background(), "tok")
	require.True(t, q.HasPrice())
	assert.Equal(t, "WIF", q.Symbol)
	assert.Equal(t, 2.5, *q.PriceUSD)
}

func TestCacheSuppressesRepeatFetches(t *testing.T) {
	t.Parallel()

	p := answering("only", 0.1)
	a := New(Options{Providers: []Provider{p}, TTL: 10 * time.Second})

	ctx := context.Background()
	a.GetQuote(ctx, "tok")
	a.GetQuote(ctx, "tok")
	a.GetQuote(ctx, "tok")

	assert.EqualValues(t, 1, p.calls.Load())
}

func TestNegativeResultIsCachedToo(t *testing.T) {
	t.Parallel()

	p := failing("dead")
	a := New(Options{Providers: []Provider{p}, TTL: 10 * time.Second})

	ctx := context.Background()
	a.GetQuote(ctx, "tok")
	a.GetQuote(ctx, "tok")

	assert.EqualValues(t, 1, p.calls.Load())
}

func TestDistinctTokensFetchedIndependently(t *testing.T) {
	t.Parallel()

	p := answering("only", 0.1)
	a := New(Options{Providers: []Provider{p}, TTL: 10 * time.Second})

	ctx := context.Background()
	a.GetQuote(ctx, "tok1")
	a.GetQuote(ctx, "tok2")

	assert.EqualValues(t, 2, p.calls.Load())
}
