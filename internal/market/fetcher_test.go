package market

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/metrics"
)

type stubProvider struct {
	calls int
	errs  []error
	bars  domain.CandleList
}

func (s *stubProvider) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.bars, nil
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Factor: 2}
}

func TestFetcherExchangeThenCache(t *testing.T) {
	ctx := context.Background()
	bars := Generate("BTCUSDT", domain.Interval1h, 10)
	p := &stubProvider{bars: bars}
	f := NewFetcher(p, WithCache(NewMemoryCache(), time.Minute), WithRetryConfig(fastRetry()))

	got, source, err := f.Get(ctx, " btcusdt ", domain.Interval1h, 10)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceExchange, source)
	assert.Equal(t, bars, got)

	_, source, err = f.Get(ctx, "BTCUSDT", domain.Interval1h, 10)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceCache, source)
	assert.Equal(t, 1, p.calls)
}

func TestFetcherRetriesTransientErrors(t *testing.T) {
	bars := Generate("ETHUSDT", domain.Interval1h, 10)
	p := &stubProvider{
		bars: bars,
		errs: []error{&APIError{StatusCode: http.StatusServiceUnavailable}, nil},
	}
	f := NewFetcher(p, WithRetryConfig(fastRetry()))

	_, source, err := f.Get(context.Background(), "ETHUSDT", domain.Interval1h, 10)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceExchange, source)
	assert.Equal(t, 2, p.calls)
}

func TestFetcherFallsBackToSynthetic(t *testing.T) {
	tests := []struct {
		name  string
		errs  []error
		calls int
	}{
		{"permanent error", []error{&APIError{StatusCode: http.StatusBadRequest}}, 1},
		{"retries exhausted", []error{
			&APIError{StatusCode: http.StatusBadGateway},
			&APIError{StatusCode: http.StatusBadGateway},
			&APIError{StatusCode: http.StatusBadGateway},
		}, 3},
		{"plain error", []error{errors.New("boom")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{errs: tt.errs}
			f := NewFetcher(p, WithRetryConfig(fastRetry()))

			got, source, err := f.Get(context.Background(), "AAPL", domain.Interval1h, 50)
			require.NoError(t, err)
			assert.Equal(t, metrics.SourceFallback, source)
			assert.Equal(t, Generate("AAPL", domain.Interval1h, 50), got)
			assert.Equal(t, tt.calls, p.calls)
		})
	}
}

func TestFetcherSyntheticOnly(t *testing.T) {
	p := &stubProvider{}
	f := NewFetcher(p, WithSyntheticOnly(true))

	got, source, err := f.Get(context.Background(), "SPY", domain.Interval1h, 200)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceSynthetic, source)
	assert.Len(t, got, 200)
	assert.Zero(t, p.calls)

	_, source, err = NewFetcher(nil).Get(context.Background(), "SPY", domain.Interval1h, 20)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceSynthetic, source)
}

func TestFetcherErrors(t *testing.T) {
	f := NewFetcher(&stubProvider{})
	_, _, err := f.Get(context.Background(), "  ", domain.Interval1h, 10)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewFetcher(&stubProvider{}).Get(ctx, "BTCUSDT", domain.Interval1h, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
