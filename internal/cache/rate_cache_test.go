package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"currency-converter/internal/entity"
	"currency-converter/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCache_GetMissing(t *testing.T) {
	c := NewRateCache()

	_, ok := c.Get("USD")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRateCache_SetReplacesWholeEntry(t *testing.T) {
	c := NewRateCache()
	first := time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC)

	c.Set("USD", entity.CacheEntry{Rates: money.RateTable{"EUR": 0.9, "GBP": 0.8}, FetchedAt: first})
	c.Set("USD", entity.CacheEntry{Rates: money.RateTable{"EUR": 0.95}, FetchedAt: first.Add(time.Hour)})

	entry, ok := c.Get("USD")
	require.True(t, ok)
	assert.Equal(t, money.RateTable{"EUR": 0.95}, entry.Rates)
	assert.Equal(t, first.Add(time.Hour), entry.FetchedAt)
	assert.Equal(t, 1, c.Len())
}

func TestRateCache_KeysAreCaseSensitive(t *testing.T) {
	c := NewRateCache()
	c.Set("USD", entity.CacheEntry{Rates: money.RateTable{"EUR": 0.9}})

	_, ok := c.Get("usd")
	assert.False(t, ok)
}

func TestRateCache_SetCopiesRates(t *testing.T) {
	c := NewRateCache()
	rates := money.RateTable{"EUR": 0.9}
	c.Set("USD", entity.CacheEntry{Rates: rates})

	rates["EUR"] = 42

	entry, _ := c.Get("USD")
	assert.Equal(t, 0.9, entry.Rates["EUR"])
}

func TestRateCache_Clear(t *testing.T) {
	c := NewRateCache()
	c.Set("USD", entity.CacheEntry{Rates: money.RateTable{"EUR": 0.9}})
	c.Set("EUR", entity.CacheEntry{Rates: money.RateTable{"USD": 1.1}})

	c.Clear()

	_, ok := c.Get("USD")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRateCache_ConcurrentAccess(t *testing.T) {
	c := NewRateCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			rate := float64(i + 1)
			c.Set("USD", entity.CacheEntry{Rates: money.RateTable{"EUR": rate, "GBP": rate}})
		}(i)
		go func() {
			defer wg.Done()
			if entry, ok := c.Get("USD"); ok {
				// both rates come from the same Set call
				assert.Equal(t, entry.Rates["EUR"], entry.Rates["GBP"], fmt.Sprint(entry.Rates))
			}
		}()
	}
	wg.Wait()
}
