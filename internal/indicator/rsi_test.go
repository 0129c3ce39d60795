package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultRSI(t *testing.T) *RSI {
	t.Helper()
	r, err := NewRSI(DefaultRSIOption())
	require.NoError(t, err)
	return r
}

func TestRSIValuesInRange(t *testing.T) {
	res, err := newDefaultRSI(t).Calculate(randomWalk(300, 42))
	require.NoError(t, err)
	require.Len(t, res.Values, 300)

	for i, v := range res.Values {
		if i < 14 {
			assert.True(t, math.IsNaN(v), "warm-up index %d should be NaN", i)
			continue
		}
		if math.IsNaN(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, res.Values[len(res.Values)-1], res.Last)
}

func TestRSIClassification(t *testing.T) {
	tests := []struct {
		name          string
		closes        []float64
		want          RSISignal
		wantSaturated bool
	}{
		{"monotonic uptrend", linspace(100, 200, 200), RSIOverbought, true},
		{"monotonic downtrend", linspace(200, 50, 200), RSIOversold, false},
		{"too short", []float64{100, 101, 102}, RSINeutral, false},
		{"flat", linspace(100, 100, 50), RSINeutral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newDefaultRSI(t).Calculate(tt.closes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Signal)
			assert.Equal(t, tt.wantSaturated, res.Saturated)
		})
	}
}

func TestRSIZeroLossIsUndefined(t *testing.T) {
	res, err := newDefaultRSI(t).Calculate(linspace(100, 200, 60))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Last), "zero average loss must not become a number")
	assert.Equal(t, 0.0, res.AvgLoss)
	assert.Greater(t, res.AvgGain, 0.0)
}

func TestRSIDownTrendIsZero(t *testing.T) {
	res, err := newDefaultRSI(t).Calculate(linspace(200, 50, 200))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Last)
}

func TestRSIDivergence(t *testing.T) {
	r := newDefaultRSI(t)
	closes := linspace(100, 110, 12)
	values := linspace(50, 60, 12)

	tests := []struct {
		name   string
		mutate func(c, v []float64)
		want   RSISignal
	}{
		{"agreeing", func(c, v []float64) {}, ""},
		{"higher high, lower oscillator", func(c, v []float64) { v[11] = 40 }, RSIBearishDivergence},
		{"lower low, higher oscillator", func(c, v []float64) { c[11] = 90; v[11] = 70 }, RSIBullishDivergence},
		{"undefined oscillator", func(c, v []float64) { v[11] = math.NaN() }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := append([]float64(nil), closes...)
			v := append([]float64(nil), values...)
			tt.mutate(c, v)
			assert.Equal(t, tt.want, r.divergence(v, c))
		})
	}

	// fewer than two lookbacks of history
	assert.Equal(t, RSISignal(""), r.divergence(values[:9], closes[:9]))
}

func TestRSIDivergenceComparesExactlyLookbackBarsBack(t *testing.T) {
	r := newDefaultRSI(t)
	closes := make([]float64, 12)
	values := make([]float64, 12)
	for i := range closes {
		closes[i], values[i] = 100, 50
	}
	// latest bar: higher close, lower RSI than index 11-5 = 6
	closes[11], values[11] = 105, 45

	// a reference one bar closer (index 7) must not matter
	closes[7], values[7] = 110, 40
	assert.Equal(t, RSIBearishDivergence, r.divergence(values, closes))

	// moving the reference itself flips the outcome
	closes[6], values[6] = 105, 45
	assert.Equal(t, RSISignal(""), r.divergence(values, closes))
}

func TestRSIMTF(t *testing.T) {
	r := newDefaultRSI(t)
	frames := map[string][]float64{
		"1h": randomWalk(200, 1),
		"4h": randomWalk(50, 2),
	}
	out, err := r.MTF(frames)
	require.NoError(t, err)
	require.Len(t, out, 2)

	single, err := r.Calculate(frames["4h"])
	require.NoError(t, err)
	assertSameBits(t, single.Values, out["4h"].Values)

	_, err = r.MTF(map[string][]float64{"1d": nil})
	assert.Error(t, err)
}

func TestRSIValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  RSIOption
	}{
		{"zero period", RSIOption{Period: 0, Overbought: 70, Oversold: 30, DivergenceLookback: 5}},
		{"inverted thresholds", RSIOption{Period: 14, Overbought: 30, Oversold: 70, DivergenceLookback: 5}},
		{"zero lookback", RSIOption{Period: 14, Overbought: 70, Oversold: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRSI(tt.opt)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}

	_, err := newDefaultRSI(t).Calculate(nil)
	assert.Error(t, err)
}

func TestRSIDeterministic(t *testing.T) {
	r := newDefaultRSI(t)
	closes := randomWalk(150, 9)
	a, err := r.Calculate(closes)
	require.NoError(t, err)
	b, err := r.Calculate(closes)
	require.NoError(t, err)
	assertSameBits(t, a.Values, b.Values)
}
