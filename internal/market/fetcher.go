package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/metrics"
)

// RetryConfig controls exchange retries.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Factor     float64
}

// DefaultRetryConfig retries twice with a short backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Factor:     2,
	}
}

// Fetcher resolves bars from the cache, then the exchange, and falls back
// to synthetic data when the exchange is unavailable.
type Fetcher struct {
	provider  Provider
	fallback  Provider
	cache     Cache
	ttl       time.Duration
	synthetic bool
	retry     RetryConfig
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithCache enables caching for ttl.
func WithCache(cache Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = cache
		f.ttl = ttl
	}
}

// WithSyntheticOnly skips the exchange entirely.
func WithSyntheticOnly(enabled bool) FetcherOption {
	return func(f *Fetcher) {
		f.synthetic = enabled
	}
}

// WithFallback replaces the synthetic fallback source.
func WithFallback(p Provider) FetcherOption {
	return func(f *Fetcher) {
		f.fallback = p
	}
}

// WithRetryConfig sets the retry policy.
func WithRetryConfig(cfg RetryConfig) FetcherOption {
	return func(f *Fetcher) {
		f.retry = cfg
	}
}

// NewFetcher creates a Fetcher over provider. A nil provider behaves like
// WithSyntheticOnly(true).
func NewFetcher(provider Provider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider: provider,
		fallback: NewSynthetic(),
		retry:    DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.provider == nil {
		f.synthetic = true
	}
	return f
}

// Get returns up to limit bars for symbol along with the source label.
func (f *Fetcher) Get(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, "", errors.New("empty symbol")
	}

	if f.synthetic {
		candles, err := f.fallback.GetKlines(ctx, symbol, interval, limit)
		if err != nil {
			return nil, "", err
		}
		metrics.MarketFetches.WithLabelValues(metrics.SourceSynthetic).Inc()
		return candles, metrics.SourceSynthetic, nil
	}

	key := CacheKey(symbol, interval, limit)
	if f.cache != nil {
		candles, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("cache read failed", logger.String("key", key), logger.ErrorField(err))
		} else if ok {
			metrics.MarketFetches.WithLabelValues(metrics.SourceCache).Inc()
			return candles, metrics.SourceCache, nil
		}
	}

	var candles domain.CandleList
	err := f.withRetry(ctx, fmt.Sprintf("klines %s %s", symbol, interval), func() error {
		var err error
		candles, err = f.provider.GetKlines(ctx, symbol, interval, limit)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		logger.Warn("exchange fetch failed, using synthetic data",
			logger.String("symbol", symbol),
			logger.String("interval", string(interval)),
			logger.ErrorField(err))

		candles, err = f.fallback.GetKlines(ctx, symbol, interval, limit)
		if err != nil {
			return nil, "", fmt.Errorf("fallback data for %s: %w", symbol, err)
		}
		metrics.MarketFetches.WithLabelValues(metrics.SourceFallback).Inc()
		return candles, metrics.SourceFallback, nil
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, candles, f.ttl); err != nil {
			logger.Warn("cache write failed", logger.String("key", key), logger.ErrorField(err))
		}
	}
	metrics.MarketFetches.WithLabelValues(metrics.SourceExchange).Inc()
	return candles, metrics.SourceExchange, nil
}

func (f *Fetcher) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := f.retry.BaseDelay

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return err
		}
		if attempt == f.retry.MaxRetries {
			return fmt.Errorf("%s: retries exhausted: %w", operation, lastErr)
		}

		logger.Debug("retrying market request",
			logger.String("operation", operation),
			logger.Int("attempt", attempt+1),
			logger.ErrorField(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * f.retry.Factor)
			if delay > f.retry.MaxDelay {
				delay = f.retry.MaxDelay
			}
		}
	}
	return lastErr
}
