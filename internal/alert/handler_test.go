package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/market"
	"github.com/assist-by/signalhub/internal/metrics"
	"github.com/assist-by/signalhub/internal/strategy/composite"
)

type failingSource struct{ err error }

func (f failingSource) Get(context.Context, string, domain.TimeInterval, int) (domain.CandleList, string, error) {
	return nil, "", f.err
}

type recordingSource struct {
	interval domain.TimeInterval
	limit    int
}

func (r *recordingSource) Get(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, string, error) {
	r.interval = interval
	r.limit = limit
	return market.Generate(symbol, interval, limit), metrics.SourceSynthetic, nil
}

// oversizedSource ignores the limit and returns extra history.
type oversizedSource struct{ bars int }

func (o oversizedSource) Get(_ context.Context, symbol string, interval domain.TimeInterval, _ int) (domain.CandleList, string, error) {
	return market.Generate(symbol, interval, o.bars), metrics.SourceCache, nil
}

func newHandler(t *testing.T, src CandleSource, opts ...HandlerOption) *Handler {
	t.Helper()
	strat, err := composite.NewStrategy(nil)
	require.NoError(t, err)
	return NewHandler(src, strat, opts...)
}

func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestHandle(t *testing.T) {
	src := &recordingSource{}
	h := newHandler(t, src, WithCandleLimit(150), WithClock(steppingClock(5*time.Millisecond)))

	a := NewParser().Parse([]byte(`{"ticker":"ethusdt","price":2500,"interval":"240","action":"sell"}`))
	res, err := h.Handle(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, domain.Interval4h, src.interval)
	assert.Equal(t, 150, src.limit)
	assert.Equal(t, metrics.SourceSynthetic, res.Source)
	assert.Equal(t, 5*time.Millisecond, res.Latency)
	assert.Same(t, a, res.Alert)

	require.NotNil(t, res.Signal)
	assert.Contains(t, domain.Ratings, res.Signal.Rating)
	assert.GreaterOrEqual(t, res.Signal.Score, -1.0)
	assert.LessOrEqual(t, res.Signal.Score, 1.0)

	n := res.Notification()
	assert.Equal(t, "ETHUSDT", n.Ticker)
	assert.Equal(t, "sell", n.Action)
	assert.Equal(t, res.Signal, n.Signal)
}

func TestHandleUnknownIntervalUsesDefault(t *testing.T) {
	src := &recordingSource{}
	h := newHandler(t, src)

	_, err := h.Handle(context.Background(), NewParser().Parse([]byte(`{"ticker":"SPY","price":1}`)))
	require.NoError(t, err)
	assert.Equal(t, domain.Interval1h, src.interval)
	assert.Equal(t, 200, src.limit)
}

func TestHandleErrors(t *testing.T) {
	h := newHandler(t, &recordingSource{})
	_, err := h.Handle(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidAlert)

	_, err = h.Handle(context.Background(), NewParser().Parse([]byte(`{}`)))
	assert.ErrorIs(t, err, ErrInvalidAlert)

	boom := errors.New("exchange down")
	h = newHandler(t, failingSource{err: boom})
	_, err = h.Handle(context.Background(), NewParser().Parse([]byte(`{"ticker":"X","price":1}`)))
	assert.ErrorIs(t, err, boom)
}

func TestHandlerSignal(t *testing.T) {
	h := newHandler(t, market.NewFetcher(nil))
	sig, err := h.Signal(context.Background(), "AAPL", domain.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Len(t, sig.Components, len(composite.Components))
}

func TestHandleWatchAlertUsesLastClose(t *testing.T) {
	src := &recordingSource{}
	h := newHandler(t, src, WithCandleLimit(120))

	a := NewWatchAlert("solusdt", domain.Interval15m, time.Now())
	require.True(t, a.Valid)
	assert.Equal(t, "SOLUSDT", a.Ticker)
	assert.Equal(t, "watch", a.Action)

	res, err := h.Handle(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, domain.Interval15m, src.interval)

	want := market.Generate("SOLUSDT", domain.Interval15m, 120)
	last, _ := want.GetLastCandle()
	assert.Equal(t, last.Close, res.LastClose)
	assert.Equal(t, last.Close, res.Notification().Price)
}

func TestHandleClipsToCandleLimit(t *testing.T) {
	all := market.Generate("SOLUSDT", domain.Interval1h, 300)
	h := newHandler(t, oversizedSource{bars: 300}, WithCandleLimit(120))

	res, err := h.Handle(context.Background(), NewParser().Parse([]byte(`{"ticker":"solusdt","price":1,"interval":"60"}`)))
	require.NoError(t, err)

	last, _ := all.GetLastCandle()
	assert.Equal(t, last.Close, res.LastClose)

	clipped, ok := all.GetSubList(180, 300)
	require.True(t, ok)
	want, err := h.strategy.Analyze(context.Background(), "SOLUSDT", clipped)
	require.NoError(t, err)
	assert.Equal(t, want.Score, res.Signal.Score)
}
