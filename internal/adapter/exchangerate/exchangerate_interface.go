package exchangerate

import "context"

type RatesClient interface {
	FetchRates(ctx context.Context, base string) (*LatestRates, error)
}
