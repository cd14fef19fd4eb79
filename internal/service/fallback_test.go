package service

import (
	"errors"
	"testing"
	"time"

	"currency-converter/internal/entity"
	"currency-converter/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRates(t *testing.T) {
	cached := entity.CacheEntry{
		Rates:     money.RateTable{"EUR": 0.9},
		FetchedAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
	}
	fetched := money.RateTable{"EUR": 0.95}
	fetchErr := errors.New("connection reset")

	t.Run("fetch succeeded", func(t *testing.T) {
		rates, source, err := selectRates("USD", cached, true, fetched, nil)
		require.NoError(t, err)
		assert.Equal(t, fetched, rates)
		assert.Equal(t, sourceUpstream, source)
	})

	t.Run("fetch failed with cached entry", func(t *testing.T) {
		rates, source, err := selectRates("USD", cached, true, nil, fetchErr)
		require.NoError(t, err)
		assert.Equal(t, cached.Rates, rates)
		assert.Equal(t, sourceStale, source)
		assert.Equal(t, "stale", source.String())
	})

	t.Run("fetch failed with nothing cached", func(t *testing.T) {
		rates, _, err := selectRates("USD", entity.CacheEntry{}, false, nil, fetchErr)
		assert.Nil(t, rates)

		var upstream *entity.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "USD", upstream.Base)
		assert.ErrorIs(t, err, entity.ErrUpstream)
		assert.ErrorIs(t, err, fetchErr)
	})
}
