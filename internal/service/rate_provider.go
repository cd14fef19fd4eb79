package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"currency-converter/internal/adapter/exchangerate"
	"currency-converter/internal/adapter/postgres"
	"currency-converter/internal/cache"
	"currency-converter/internal/entity"
	"currency-converter/internal/metrics"
	"currency-converter/pkg/money"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = time.Hour

	snapshotWriteTimeout = 5 * time.Second
)

type RateProvider struct {
	client  exchangerate.RatesClient
	cache   *cache.RateCache
	store   postgres.SnapshotRepository
	metrics *metrics.RateMetrics
	logger  *logrus.Logger

	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
	pending sync.WaitGroup
}

type Option func(*RateProvider)

func WithTTL(ttl time.Duration) Option {
	return func(p *RateProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *RateProvider) {
		p.now = now
	}
}

// WithSnapshotStore persists every successful fetch and enables Restore.
func WithSnapshotStore(store postgres.SnapshotRepository) Option {
	return func(p *RateProvider) {
		p.store = store
	}
}

func NewRateProvider(client exchangerate.RatesClient, rateCache *cache.RateCache, m *metrics.RateMetrics, logger *logrus.Logger, opts ...Option) *RateProvider {
	p := &RateProvider{
		client:  client,
		cache:   rateCache,
		metrics: m,
		logger:  logger,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RateProvider) TTL() time.Duration {
	return p.ttl
}

func (p *RateProvider) GetRates(ctx context.Context, base string) (money.RateTable, error) {
	if base == "" {
		return nil, entity.ErrInvalidCurrency
	}

	if entry, ok := p.cache.Get(base); ok && entry.FreshAt(p.now(), p.ttl) {
		p.metrics.RecordCache(base, metrics.CacheHit)
		return entry.Rates, nil
	}
	p.metrics.RecordCache(base, metrics.CacheMiss)

	fetched, fetchErr := p.refresh(ctx, base)

	cached, hasCached := p.cache.Get(base)
	rates, source, err := selectRates(base, cached, hasCached, fetched, fetchErr)
	if err != nil {
		p.logger.WithError(fetchErr).WithField("base", base).Error("Rate source failed and no cached rates available")
		return nil, err
	}

	if source == sourceStale {
		p.metrics.RecordCache(base, metrics.CacheStale)
		p.logger.WithError(fetchErr).WithFields(logrus.Fields{
			"base":       base,
			"source":     source.String(),
			"fetched_at": cached.FetchedAt.Format(time.RFC3339),
		}).Warn("Serving stale exchange rates")
	}

	return rates, nil
}

func (p *RateProvider) refresh(ctx context.Context, base string) (money.RateTable, error) {
	// Joined callers share one fetch, so it runs detached from whichever
	// caller started it; the rate client timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)

	ch := p.group.DoChan(base, func() (any, error) {
		return p.fetch(fetchCtx, base)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.logger.WithField("base", base).Debug("Joined in-flight rate fetch")
		}
		return res.Val.(money.RateTable), nil
	}
}

func (p *RateProvider) fetch(ctx context.Context, base string) (money.RateTable, error) {
	start := time.Now()
	resp, err := p.client.FetchRates(ctx, base)

	var rates money.RateTable
	if err == nil {
		rates, err = p.convertLatestRates(base, resp)
	}
	p.metrics.RecordFetch(base, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	fetchedAt := p.now()
	p.cache.Set(base, entity.CacheEntry{Rates: rates, FetchedAt: fetchedAt})
	p.metrics.SetCacheEntries(p.cache.Len())

	p.persist(ctx, entity.Snapshot{Base: base, Rates: rates.Clone(), FetchedAt: fetchedAt})

	return rates, nil
}

// persist writes the snapshot in the background with its own deadline.
func (p *RateProvider) persist(ctx context.Context, snap entity.Snapshot) {
	if p.store == nil {
		return
	}

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, snapshotWriteTimeout)
		defer cancel()

		if err := p.store.StoreSnapshot(ctx, snap); err != nil {
			p.metrics.RecordSnapshotError("store")
			p.logger.WithError(err).WithField("base", snap.Base).Warn("Failed to persist rate snapshot")
		}
	}()
}

// Wait blocks until pending snapshot writes have finished.
func (p *RateProvider) Wait() {
	p.pending.Wait()
}

func (p *RateProvider) convertLatestRates(base string, resp *exchangerate.LatestRates) (money.RateTable, error) {
	if resp == nil {
		return nil, errors.New("empty rates response")
	}

	if resp.Base != "" && resp.Base != base {
		p.logger.WithFields(logrus.Fields{
			"requested": base,
			"received":  resp.Base,
		}).Warn("Rate source answered for a different base")
	}

	rates := make(money.RateTable, len(resp.Rates)+1)
	var skipped error
	for code, rate := range resp.Rates {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			skipped = multierr.Append(skipped, fmt.Errorf("invalid rate for %s: %v", code, rate))
			continue
		}
		rates[code] = rate
	}

	if skipped != nil {
		if len(rates) == 0 {
			return nil, fmt.Errorf("all %d rates were invalid: %w", len(resp.Rates), skipped)
		}
		p.logger.WithError(skipped).WithField("base", base).
			Debugf("Skipped %d invalid rates", len(multierr.Errors(skipped)))
	}

	rates[base] = 1
	return rates, nil
}

// Restore seeds the cache from persisted snapshots, keeping their original
// fetch time so freshness is still judged by age.
func (p *RateProvider) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	snapshots, err := p.store.LoadSnapshots(ctx)
	if err != nil {
		p.metrics.RecordSnapshotError("load")
		return fmt.Errorf("load snapshots: %w", err)
	}

	restored := 0
	for _, snap := range snapshots {
		if current, ok := p.cache.Get(snap.Base); ok && !current.FetchedAt.Before(snap.FetchedAt) {
			continue
		}
		p.cache.Set(snap.Base, entity.CacheEntry{Rates: snap.Rates, FetchedAt: snap.FetchedAt})
		restored++
	}
	p.metrics.SetCacheEntries(p.cache.Len())

	p.logger.WithField("bases", restored).Info("Restored exchange rates from snapshots")
	return nil
}

func (p *RateProvider) Clear() {
	p.cache.Clear()
	p.metrics.SetCacheEntries(0)
	p.logger.Info("Exchange rate cache cleared")
}
