package composite

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

// syntheticWindow draws log-returns N(0.0002, 0.015) from 100 with a fixed seed.
func syntheticWindow(n int, seed int64, withVolume bool) domain.Window {
	rng := rand.New(rand.NewSource(seed))
	w := domain.Window{
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
	}
	if withVolume {
		w.Volume = make([]float64, n)
	}
	price := 100.0
	for i := 0; i < n; i++ {
		price *= math.Exp(0.0002 + 0.015*rng.NormFloat64())
		w.Close[i] = price
		w.High[i] = price * (1 + math.Abs(0.008*rng.NormFloat64()))
		w.Low[i] = price * (1 - math.Abs(0.008*rng.NormFloat64()))
		if withVolume {
			w.Volume[i] = float64(100_000 + rng.Intn(4_900_000))
		}
	}
	return w
}

func newEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultOption(), append([]EngineOption{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return e
}

func TestRunScoreAndRatingBounds(t *testing.T) {
	e := newEngine(t)
	for seed := int64(1); seed <= 25; seed++ {
		for _, withVolume := range []bool{true, false} {
			sig, err := e.Run(syntheticWindow(100, seed, withVolume))
			require.NoError(t, err)

			assert.GreaterOrEqual(t, sig.Score, -1.0)
			assert.LessOrEqual(t, sig.Score, 1.0)
			assert.Contains(t, domain.Ratings, sig.Rating)
			assert.Len(t, sig.Components, len(Components))
			assert.Empty(t, sig.Errors)
			for _, v := range sig.Components {
				assert.GreaterOrEqual(t, v, -1.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestRunWithoutVolume(t *testing.T) {
	sig, err := newEngine(t).Run(syntheticWindow(100, 42, false))
	require.NoError(t, err)
	assert.Equal(t, LabelNA, sig.VWAPSignal)
	assert.Equal(t, 0.0, sig.Components[ComponentVWAP])
	assert.Nil(t, sig.Diagnostics.VWAP)
}

func TestRunIsDeterministic(t *testing.T) {
	w := syntheticWindow(100, 42, true)
	e := newEngine(t)

	a, err := e.Run(w)
	require.NoError(t, err)
	b, err := e.Run(w)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p, err := newEngine(t, WithParallel(true)).Run(w)
	require.NoError(t, err)
	assert.Equal(t, a, p)
}

func TestRunScoreIsWeightedSum(t *testing.T) {
	sig, err := newEngine(t).Run(syntheticWindow(150, 7, true))
	require.NoError(t, err)

	total := 0.0
	for name, v := range sig.Components {
		total += Weight(name) * v
	}
	assert.InDelta(t, total, sig.Score, 0.0001)
	assert.Equal(t, sig.Score, math.Round(sig.Score*10000)/10000)
}

func TestRunMonotonicUptrend(t *testing.T) {
	n := 200
	w := domain.Window{High: make([]float64, n), Low: make([]float64, n), Close: make([]float64, n)}
	for i := 0; i < n; i++ {
		c := 100 + 100*float64(i)/float64(n-1)
		w.Close[i], w.High[i], w.Low[i] = c, c+0.25, c-0.25
	}

	sig, err := newEngine(t).Run(w)
	require.NoError(t, err)

	// The trend vote is bullish while the contrarian momentum vote is
	// overbought.
	assert.Equal(t, string(indicator.SuperTrendBullish), sig.STSignal)
	assert.Equal(t, 0.7, sig.Components[ComponentST])
	assert.Equal(t, string(indicator.RSIOverbought), sig.RSISignal)
	assert.Equal(t, -1.0, sig.Components[ComponentRSI])
	assert.Nil(t, sig.Diagnostics.RSI)
	assert.Contains(t, domain.Ratings, sig.Rating)
}

func TestRunIsolatesIndicatorFailure(t *testing.T) {
	e := newEngine(t)
	e.evaluators[1] = func(domain.Window, *domain.Diagnostics) vote {
		return vote{err: errors.New("boom")}
	}
	e.evaluators[2] = func(domain.Window, *domain.Diagnostics) vote {
		return vote{label: "sideways", err: &UnknownSignalError{Component: ComponentBB, Label: "sideways"}}
	}

	sig, err := e.Run(syntheticWindow(100, 3, true))
	require.NoError(t, err)

	assert.Equal(t, LabelError, sig.MACDSignal)
	assert.Equal(t, LabelError, sig.BBSignal)
	assert.Equal(t, 0.0, sig.Components[ComponentMACD])
	assert.Equal(t, 0.0, sig.Components[ComponentBB])
	assert.Equal(t, "boom", sig.Errors[ComponentMACD])
	assert.Contains(t, sig.Errors[ComponentBB], "sideways")

	assert.NotEqual(t, LabelError, sig.RSISignal)
	assert.NotEqual(t, LabelError, sig.STSignal)
	assert.NotEqual(t, LabelError, sig.VWAPSignal)
}

func TestRunRejectsMalformedWindow(t *testing.T) {
	e := newEngine(t)

	w := syntheticWindow(50, 1, true)
	w.Low = w.Low[:49]
	_, err := e.Run(w)
	var lm *domain.LengthMismatchError
	assert.True(t, errors.As(err, &lm))

	_, err = e.Run(domain.Window{})
	var ve *indicator.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestNewEngineRejectsBadOption(t *testing.T) {
	opt := DefaultOption()
	opt.MACD.SlowPeriod = 5
	_, err := NewEngine(opt)
	var ve *indicator.ValidationError
	assert.True(t, errors.As(err, &ve))
}
