package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/letbuildnow/solPaper/market"
)

func TestCacheServesWithinTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(10 * time.Second)
	c.now = func() time.Time { return now }

	q := market.Quote{Token: "abc", PriceSOL: market.Float(0.5)}
	c.Put("abc", q)

	now = now.Add(9 * time.Second)
	got, ok := c.Get("abc")
	assert.True(t, ok)
	assert.Equal(t, 0.5, got.Price())
}

func TestCacheExpiresAtTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(10 * time.Second)
	c.now = func() time.Time { return now }

	c.Put("abc", market.Quote{Token: "abc"})

	now = now.Add(10 * time.Second)
	_, ok := c.Get("abc")
	assert.False(t, ok)
}

func TestCacheMissForUnknownToken(t *testing.T) {
	t.Parallel()

	c := NewCache(0) // default TTL
	_, ok := c.Get("nope")
	assert.False(t, ok)
}
