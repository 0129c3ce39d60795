package indicator

import (
	"fmt"
	"math"
)

// RSISignal classifies the latest RSI reading.
type RSISignal string

const (
	RSIOverbought        RSISignal = "overbought"
	RSIOversold          RSISignal = "oversold"
	RSIBullishDivergence RSISignal = "bullish_divergence"
	RSIBearishDivergence RSISignal = "bearish_divergence"
	RSINeutral           RSISignal = "neutral"
)

// RSISignals lists every RSI classification.
var RSISignals = []RSISignal{
	RSIOverbought, RSIOversold, RSIBullishDivergence, RSIBearishDivergence, RSINeutral,
}

// RSIOption configures the RSI calculator.
type RSIOption struct {
	Period             int     `yaml:"period" default:"14"`
	Overbought         float64 `yaml:"overbought" default:"70"`
	Oversold           float64 `yaml:"oversold" default:"30"`
	DivergenceLookback int     `yaml:"divergence_lookback" default:"5"`
}

// DefaultRSIOption returns RSI(14) with 70/30 thresholds and a five bar
// divergence lookback.
func DefaultRSIOption() RSIOption {
	return RSIOption{Period: 14, Overbought: 70, Oversold: 30, DivergenceLookback: 5}
}

// ValidateRSIOption checks an RSI option.
func ValidateRSIOption(opt RSIOption) error {
	if opt.Period <= 0 {
		return &ValidationError{Field: "Period", Err: fmt.Errorf("must be > 0: %d", opt.Period)}
	}
	if opt.Oversold < 0 || opt.Overbought > 100 || opt.Oversold >= opt.Overbought {
		return &ValidationError{
			Field: "Overbought",
			Err:   fmt.Errorf("thresholds must satisfy 0 <= oversold < overbought <= 100: %v / %v", opt.Oversold, opt.Overbought),
		}
	}
	if opt.DivergenceLookback <= 0 {
		return &ValidationError{Field: "DivergenceLookback", Err: fmt.Errorf("must be > 0: %d", opt.DivergenceLookback)}
	}
	return nil
}

// RSIResult holds one RSI calculation.
type RSIResult struct {
	Values []float64 // 0-100, NaN during warm-up or when average loss is zero
	Last   float64
	Signal RSISignal

	// Divergence is true when price and RSI disagree over the lookback.
	// DivergenceKind names the direction, or is empty.
	Divergence     bool
	DivergenceKind RSISignal

	AvgGain float64
	AvgLoss float64
	// Saturated marks a final reading whose average loss is zero while the
	// average gain is positive. Last stays NaN; the reading is treated as
	// its limit of 100 for classification.
	Saturated bool
}

// RSI is a Wilder-smoothed relative strength index.
type RSI struct {
	opt RSIOption
}

// NewRSI returns an RSI calculator.
func NewRSI(opt RSIOption) (*RSI, error) {
	if err := ValidateRSIOption(opt); err != nil {
		return nil, err
	}
	return &RSI{opt: opt}, nil
}

// Option returns the calculator's configuration.
func (r *RSI) Option() RSIOption { return r.opt }

// Calculate computes RSI over a close series.
func (r *RSI) Calculate(closes []float64) (*RSIResult, error) {
	if err := requireSeries("close", closes); err != nil {
		return nil, err
	}

	n := len(closes)
	gains := nanSeries(n)
	losses := nanSeries(n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	avgGain := Wilder(gains, r.opt.Period)
	avgLoss := Wilder(losses, r.opt.Period)

	values := make([]float64, n)
	for i := range values {
		values[i] = rsiValue(avgGain[i], avgLoss[i])
	}

	res := &RSIResult{
		Values:  values,
		Last:    last(values),
		AvgGain: last(avgGain),
		AvgLoss: last(avgLoss),
	}
	res.Saturated = res.AvgLoss == 0 && res.AvgGain > 0
	res.Signal = r.classify(res)
	res.DivergenceKind = r.divergence(values, closes)
	res.Divergence = res.DivergenceKind != ""
	return res, nil
}

// MTF runs Calculate on each named frame independently.
func (r *RSI) MTF(frames map[string][]float64) (map[string]*RSIResult, error) {
	out := make(map[string]*RSIResult, len(frames))
	for name, closes := range frames {
		res, err := r.Calculate(closes)
		if err != nil {
			return nil, fmt.Errorf("timeframe %s: %w", name, err)
		}
		out[name] = res
	}
	return out, nil
}

// rsiValue is undefined when the average loss is zero.
func rsiValue(gain, loss float64) float64 {
	if math.IsNaN(gain) || math.IsNaN(loss) || loss == 0 {
		return math.NaN()
	}
	return 100 - 100/(1+gain/loss)
}

func (r *RSI) classify(res *RSIResult) RSISignal {
	v := res.Last
	if res.Saturated {
		v = 100
	}
	switch {
	case math.IsNaN(v):
		return RSINeutral
	case v >= r.opt.Overbought:
		return RSIOverbought
	case v <= r.opt.Oversold:
		return RSIOversold
	default:
		return RSINeutral
	}
}

// divergence compares index n-1 with index n-1-lookback, exactly lookback
// bars apart, for both close and RSI. Comparisons against NaN are false, so
// undefined readings never report a divergence.
func (r *RSI) divergence(values, closes []float64) RSISignal {
	lb := r.opt.DivergenceLookback
	n := len(values)
	if n < 2*lb {
		return ""
	}
	pNow, pThen := closes[n-1], closes[n-1-lb]
	rNow, rThen := values[n-1], values[n-1-lb]
	switch {
	case pNow > pThen && rNow < rThen:
		return RSIBearishDivergence
	case pNow < pThen && rNow > rThen:
		return RSIBullishDivergence
	default:
		return ""
	}
}
