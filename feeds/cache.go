package feeds

import (
	"sync"
	"time"

	"github.com/letbuildnow/solPaper/market"
)

// DefaultTTL is how long a completed quote chain result is served
// without re-hitting the network for the same token.
const DefaultTTL = 10 * time.Second

type cacheEntry struct {
	quote     market.Quote
	fetchedAt time.Time
}

// Cache is a per-token TTL cache of quote-chain results. Overwrites are
// idempotent, so concurrent fills for the same token need no
// coordination beyond the map lock.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[market.Token]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[market.Token]cacheEntry),
	}
}

func (c *Cache) Get(token market.Token) (market.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[token]
	if !ok {
		return market.Quote{}, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return market.Quote{}, false
	}
	return e.quote, true
}

func (c *Cache) Put(token market.Token, q market.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = cacheEntry{quote: q, fetchedAt: c.now()}
}
