package market

import "context"

// QuoteSource resolves a live quote for a token. Implementations must
// never block past their configured timeouts and must return a Quote
// with a nil PriceSOL, not an error, when every upstream is down.
type QuoteSource interface {
	GetQuote(ctx context.Context, token Token) Quote
}
