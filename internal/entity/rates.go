package entity

import (
	"time"

	"currency-converter/pkg/money"
)

type CacheEntry struct {
	Rates     money.RateTable `json:"rates"`
	FetchedAt time.Time       `json:"fetched_at"`
}

func (e CacheEntry) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Snapshot is a persisted rate table for one base currency.
type Snapshot struct {
	Base      string          `db:"base_code" json:"base"`
	Rates     money.RateTable `json:"rates"`
	FetchedAt time.Time       `db:"fetched_at" json:"fetched_at"`
}
