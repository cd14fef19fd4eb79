package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RateTable maps a target currency code to the number of target units one
// unit of the base currency buys. Tables handed out by the rate service are
// shared and must be treated as read-only.
type RateTable map[string]float64

var ErrRateNotFound = errors.New("exchange rate not found")

type RateNotFoundError struct {
	From string
	To   string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("exchange rate not found for %s->%s", e.From, e.To)
}

func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}

// Rate returns a usable multiplier for code. Zero, negative and non-finite
// entries count as missing.
func (t RateTable) Rate(code string) (float64, bool) {
	rate, ok := t[code]
	if !ok || !validRate(rate) {
		return 0, false
	}
	return rate, true
}

func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	out := make(RateTable, len(t))
	for code, rate := range t {
		out[code] = rate
	}
	return out
}

// Filter keeps only the requested codes. Codes missing from the table are
// dropped without error.
func (t RateTable) Filter(codes []string) RateTable {
	out := make(RateTable, len(codes))
	for _, code := range codes {
		if rate, ok := t.Rate(code); ok {
			out[code] = rate
		}
	}
	return out
}

// Convert applies rates (keyed relative to from) to amount. Identical codes
// return amount untouched, whatever round says.
func Convert(amount float64, from, to string, rates RateTable, round bool) (float64, error) {
	if from == to {
		return amount, nil
	}

	rate, ok := rates.Rate(to)
	if !ok {
		return 0, &RateNotFoundError{From: from, To: to}
	}

	converted := amount * rate
	if round {
		return RoundCents(converted), nil
	}
	return converted, nil
}

// RoundCents rounds to two decimals, halves away from zero.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0)
}
