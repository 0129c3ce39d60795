package indicator

import (
	"fmt"
	"math"
)

// MACDSignal classifies the latest MACD state.
type MACDSignal string

const (
	MACDBullishCross MACDSignal = "bullish_cross"
	MACDBearishCross MACDSignal = "bearish_cross"
	MACDZeroCrossUp  MACDSignal = "zero_cross_up"
	MACDZeroCrossDn  MACDSignal = "zero_cross_dn"
	MACDMomentumUp   MACDSignal = "momentum_up"
	MACDMomentumDown MACDSignal = "momentum_down"
	MACDNeutral      MACDSignal = "neutral"
)

// MACDSignals lists every MACD classification.
var MACDSignals = []MACDSignal{
	MACDBullishCross, MACDBearishCross, MACDZeroCrossUp, MACDZeroCrossDn,
	MACDMomentumUp, MACDMomentumDown, MACDNeutral,
}

// MACDOption configures the MACD calculator.
type MACDOption struct {
	FastPeriod   int `yaml:"fast" default:"12"`
	SlowPeriod   int `yaml:"slow" default:"26"`
	SignalPeriod int `yaml:"signal" default:"9"`
}

// DefaultMACDOption returns MACD(12, 26, 9).
func DefaultMACDOption() MACDOption {
	return MACDOption{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}
}

// ValidateMACDOption checks a MACD option.
func ValidateMACDOption(opt MACDOption) error {
	if opt.FastPeriod <= 0 {
		return &ValidationError{Field: "FastPeriod", Err: fmt.Errorf("must be > 0: %d", opt.FastPeriod)}
	}
	if opt.SlowPeriod <= opt.FastPeriod {
		return &ValidationError{
			Field: "SlowPeriod",
			Err:   fmt.Errorf("must be greater than the fast period: %d <= %d", opt.SlowPeriod, opt.FastPeriod),
		}
	}
	if opt.SignalPeriod <= 0 {
		return &ValidationError{Field: "SignalPeriod", Err: fmt.Errorf("must be > 0: %d", opt.SignalPeriod)}
	}
	return nil
}

// MACDResult holds one MACD calculation.
type MACDResult struct {
	MACD       []float64
	SignalLine []float64
	Histogram  []float64
	Signal     MACDSignal
	LastMACD   float64
	LastHist   float64
}

// MACD is the moving average convergence divergence oscillator.
type MACD struct {
	opt MACDOption
}

// NewMACD returns a MACD calculator.
func NewMACD(opt MACDOption) (*MACD, error) {
	if err := ValidateMACDOption(opt); err != nil {
		return nil, err
	}
	return &MACD{opt: opt}, nil
}

// Option returns the calculator's configuration.
func (m *MACD) Option() MACDOption { return m.opt }

// Calculate computes the MACD line, signal line and histogram over closes.
// Every EMA is seeded by its first sample, so all series are defined from
// the first bar.
func (m *MACD) Calculate(closes []float64) (*MACDResult, error) {
	if err := requireSeries("close", closes); err != nil {
		return nil, err
	}

	fast := EMA(closes, m.opt.FastPeriod)
	slow := EMA(closes, m.opt.SlowPeriod)

	line := make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal := EMA(line, m.opt.SignalPeriod)

	hist := make([]float64, len(closes))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}

	return &MACDResult{
		MACD:       line,
		SignalLine: signal,
		Histogram:  hist,
		Signal:     classifyMACD(line, signal, hist),
		LastMACD:   last(line),
		LastHist:   last(hist),
	}, nil
}

// classifyMACD checks the signal-line cross first, then the zero-line
// cross, then histogram momentum.
func classifyMACD(line, signal, hist []float64) MACDSignal {
	if len(line) < 2 {
		return MACDNeutral
	}

	prevAbove := prev(line) > prev(signal)
	currAbove := last(line) > last(signal)
	switch {
	case !prevAbove && currAbove:
		return MACDBullishCross
	case prevAbove && !currAbove:
		return MACDBearishCross
	}

	prevPos := prev(line) > 0
	currPos := last(line) > 0
	switch {
	case !prevPos && currPos:
		return MACDZeroCrossUp
	case prevPos && !currPos:
		return MACDZeroCrossDn
	}

	h, ph := last(hist), prev(hist)
	switch {
	case math.IsNaN(h) || math.IsNaN(ph):
		return MACDNeutral
	case h > ph:
		return MACDMomentumUp
	case h < ph:
		return MACDMomentumDown
	default:
		return MACDNeutral
	}
}
