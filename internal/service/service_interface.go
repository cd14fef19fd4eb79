package service

import (
	"context"
	"time"

	"currency-converter/pkg/money"
)

type RateService interface {
	GetRates(ctx context.Context, base string) (money.RateTable, error)
	Restore(ctx context.Context) error
	Clear()
	TTL() time.Duration
}
