package service

import (
	"currency-converter/internal/entity"
	"currency-converter/pkg/money"
)

type rateSource int

const (
	sourceUpstream rateSource = iota
	sourceStale
)

func (s rateSource) String() string {
	if s == sourceStale {
		return "stale"
	}
	return "upstream"
}

// selectRates decides what a lookup returns once a refresh has been tried.
// A failed refresh falls back to whatever is cached for the base, however
// old; with nothing cached the failure surfaces as an UpstreamError.
func selectRates(base string, cached entity.CacheEntry, hasCached bool, fetched money.RateTable, fetchErr error) (money.RateTable, rateSource, error) {
	if fetchErr == nil {
		return fetched, sourceUpstream, nil
	}
	if hasCached {
		return cached.Rates, sourceStale, nil
	}
	return nil, sourceUpstream, &entity.UpstreamError{Base: base, Err: fetchErr}
}
