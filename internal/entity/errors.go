package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUpstream        = errors.New("rate source unavailable")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// UpstreamError is returned when the rate source failed and nothing was
// cached for the base currency.
type UpstreamError struct {
	Base string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch rates for %s: %v", e.Base, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
