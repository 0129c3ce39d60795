package composite

import (
	"errors"
	"testing"

	"github.com/assist-by/signalhub/internal/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, c := range Components {
		w := Weight(c)
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Len(t, weights, len(Components))
}

func TestEveryClassificationHasAScore(t *testing.T) {
	check := func(t *testing.T, score float64, err error) {
		t.Helper()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, -1.0)
		assert.LessOrEqual(t, score, 1.0)
	}

	for _, s := range indicator.RSISignals {
		score, err := RSIScore(s)
		check(t, score, err)
	}
	for _, s := range indicator.MACDSignals {
		score, err := MACDScore(s)
		check(t, score, err)
	}
	for _, s := range indicator.BollingerSignals {
		score, err := BollingerScore(s)
		check(t, score, err)
	}
	for _, s := range indicator.SuperTrendSignals {
		score, err := SuperTrendScore(s)
		check(t, score, err)
	}
	for _, s := range indicator.VWAPSignals {
		score, err := VWAPScore(s)
		check(t, score, err)
	}
}

func TestScoreTables(t *testing.T) {
	tests := []struct {
		label string
		got   func() (float64, error)
		want  float64
	}{
		{"oversold", func() (float64, error) { return RSIScore(indicator.RSIOversold) }, 1.0},
		{"bullish_divergence", func() (float64, error) { return RSIScore(indicator.RSIBullishDivergence) }, 0.8},
		{"bearish_divergence", func() (float64, error) { return RSIScore(indicator.RSIBearishDivergence) }, -0.8},
		{"overbought", func() (float64, error) { return RSIScore(indicator.RSIOverbought) }, -1.0},
		{"bullish_cross", func() (float64, error) { return MACDScore(indicator.MACDBullishCross) }, 1.0},
		{"zero_cross_up", func() (float64, error) { return MACDScore(indicator.MACDZeroCrossUp) }, 0.8},
		{"momentum_up", func() (float64, error) { return MACDScore(indicator.MACDMomentumUp) }, 0.4},
		{"momentum_down", func() (float64, error) { return MACDScore(indicator.MACDMomentumDown) }, -0.4},
		{"zero_cross_dn", func() (float64, error) { return MACDScore(indicator.MACDZeroCrossDn) }, -0.8},
		{"bearish_cross", func() (float64, error) { return MACDScore(indicator.MACDBearishCross) }, -1.0},
		{"lower_break", func() (float64, error) { return BollingerScore(indicator.BollingerLowerBreak) }, 1.0},
		{"lower_touch", func() (float64, error) { return BollingerScore(indicator.BollingerLowerTouch) }, 0.6},
		{"squeeze", func() (float64, error) { return BollingerScore(indicator.BollingerSqueeze) }, 0},
		{"expansion", func() (float64, error) { return BollingerScore(indicator.BollingerExpansion) }, 0},
		{"upper_touch", func() (float64, error) { return BollingerScore(indicator.BollingerUpperTouch) }, -0.6},
		{"upper_break", func() (float64, error) { return BollingerScore(indicator.BollingerUpperBreak) }, -1.0},
		{"buy_signal", func() (float64, error) { return SuperTrendScore(indicator.SuperTrendBuy) }, 1.0},
		{"bullish", func() (float64, error) { return SuperTrendScore(indicator.SuperTrendBullish) }, 0.7},
		{"bearish", func() (float64, error) { return SuperTrendScore(indicator.SuperTrendBearish) }, -0.7},
		{"sell_signal", func() (float64, error) { return SuperTrendScore(indicator.SuperTrendSell) }, -1.0},
		{"cross_up", func() (float64, error) { return VWAPScore(indicator.VWAPCrossUp) }, 1.0},
		{"at_2sd_lower", func() (float64, error) { return VWAPScore(indicator.VWAPAt2SDLower) }, 0.8},
		{"at_1sd_lower", func() (float64, error) { return VWAPScore(indicator.VWAPAt1SDLower) }, 0.4},
		{"above_vwap", func() (float64, error) { return VWAPScore(indicator.VWAPAbove) }, 0.2},
		{"below_vwap", func() (float64, error) { return VWAPScore(indicator.VWAPBelow) }, -0.2},
		{"at_1sd_upper", func() (float64, error) { return VWAPScore(indicator.VWAPAt1SDUpper) }, -0.4},
		{"at_2sd_upper", func() (float64, error) { return VWAPScore(indicator.VWAPAt2SDUpper) }, -0.8},
		{"cross_down", func() (float64, error) { return VWAPScore(indicator.VWAPCrossDown) }, -1.0},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := tt.got()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownClassification(t *testing.T) {
	_, err := MACDScore(indicator.MACDSignal("sideways"))
	var ue *UnknownSignalError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, ComponentMACD, ue.Component)
	assert.Equal(t, "sideways", ue.Label)
}
