package feeds

import (
	"context"
	"time"

	"github.com/letbuildnow/solPaper/market"
)

// DefaultTimeout bounds every provider HTTP call. A hung upstream is
// treated as "no answer" once the timeout fires; it is never retried
// within the same quote chain.
const DefaultTimeout = 10 * time.Second

// Provider is one upstream price source. FetchQuote fills q with
// whatever the source knows about the token. done=true means the
// provider resolved an authoritative SOL price and the chain stops.
//
// A provider may partially populate q (metadata, USD price) and still
// return done=false; later providers only fill what is missing.
// Errors are soft: the aggregator logs them and moves on.
type Provider interface {
	Name() string
	FetchQuote(ctx context.Context, token market.Token, q *market.Quote) (done bool, err error)
}
