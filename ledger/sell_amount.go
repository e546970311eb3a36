package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// SellAmount selects how much of a position to sell: everything, a
// percentage of the holding, or an absolute token amount.
type SellAmount struct {
	All     bool
	Percent float64
	Tokens  float64
}

func SellAll() SellAmount                { return SellAmount{All: true} }
func SellPercent(pct float64) SellAmount { return SellAmount{Percent: pct} }
func SellTokens(amount float64) SellAmount {
	return SellAmount{Tokens: amount}
}

// ParseSellAmount parses the command-layer selector: "all", "75%", or
// a plain token amount.
func ParseSellAmount(s string) (SellAmount, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" {
		return SellAll(), nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return SellAmount{}, fmt.Errorf("parse percentage %q: %w", s, ErrInvalidAmount)
		}
		if v <= 0 || v > 100 {
			return SellAmount{}, fmt.Errorf("percentage %q out of range: %w", s, ErrInvalidAmount)
		}
		return SellPercent(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return SellAmount{}, fmt.Errorf("parse amount %q: %w", s, ErrInvalidAmount)
	}
	return SellTokens(v), nil
}

// resolve turns the selector into a concrete token amount against the
// currently held position.
func (s SellAmount) resolve(held float64) (float64, error) {
	switch {
	case s.All:
		return held, nil
	case s.Percent > 0:
		if s.Percent > 100 {
			return 0, ErrInvalidAmount
		}
		return held * s.Percent / 100, nil
	default:
		if s.Tokens <= 0 {
			return 0, ErrInvalidAmount
		}
		if s.Tokens > held {
			return 0, ErrInsufficientHoldings
		}
		return s.Tokens, nil
	}
}
