package indicator

import (
	"fmt"
	"math"
)

// BollingerSignal classifies the latest close against the bands.
type BollingerSignal string

const (
	BollingerSqueeze    BollingerSignal = "squeeze"
	BollingerExpansion  BollingerSignal = "expansion"
	BollingerUpperTouch BollingerSignal = "upper_touch"
	BollingerLowerTouch BollingerSignal = "lower_touch"
	BollingerUpperBreak BollingerSignal = "upper_break"
	BollingerLowerBreak BollingerSignal = "lower_break"
	BollingerNeutral    BollingerSignal = "neutral"
)

// BollingerSignals lists every band classification.
var BollingerSignals = []BollingerSignal{
	BollingerSqueeze, BollingerExpansion, BollingerUpperTouch, BollingerLowerTouch,
	BollingerUpperBreak, BollingerLowerBreak, BollingerNeutral,
}

const (
	expansionRatio = 1.05
	touchTolerance = 0.005
)

// BollingerOption configures the band calculator.
type BollingerOption struct {
	Period           int     `yaml:"period" default:"20"`
	StdDev           float64 `yaml:"std_dev" default:"2.0"`
	SqueezeThreshold float64 `yaml:"squeeze_threshold" default:"0.04"`
}

// DefaultBollingerOption returns 20 periods at 2 standard deviations with a
// 4% squeeze threshold.
func DefaultBollingerOption() BollingerOption {
	return BollingerOption{Period: 20, StdDev: 2.0, SqueezeThreshold: 0.04}
}

// ValidateBollingerOption checks a band option.
func ValidateBollingerOption(opt BollingerOption) error {
	if opt.Period <= 0 {
		return &ValidationError{Field: "Period", Err: fmt.Errorf("must be > 0: %d", opt.Period)}
	}
	if opt.StdDev <= 0 {
		return &ValidationError{Field: "StdDev", Err: fmt.Errorf("must be > 0: %v", opt.StdDev)}
	}
	if opt.SqueezeThreshold < 0 {
		return &ValidationError{Field: "SqueezeThreshold", Err: fmt.Errorf("must be >= 0: %v", opt.SqueezeThreshold)}
	}
	return nil
}

// BollingerResult holds one band calculation. Samples before a full window
// are NaN.
type BollingerResult struct {
	Upper     []float64
	Middle    []float64
	Lower     []float64
	PctB      []float64 // NaN where the bands collapse to a point
	Bandwidth []float64 // NaN where the middle band is zero
	Signal    BollingerSignal
	Squeeze   bool
}

// Bollinger computes volatility bands from a simple moving average and the
// population standard deviation.
type Bollinger struct {
	opt BollingerOption
}

// NewBollinger returns a band calculator.
func NewBollinger(opt BollingerOption) (*Bollinger, error) {
	if err := ValidateBollingerOption(opt); err != nil {
		return nil, err
	}
	return &Bollinger{opt: opt}, nil
}

// Option returns the calculator's configuration.
func (b *Bollinger) Option() BollingerOption { return b.opt }

// Calculate computes the bands over closes.
func (b *Bollinger) Calculate(closes []float64) (*BollingerResult, error) {
	if err := requireSeries("close", closes); err != nil {
		return nil, err
	}

	n := len(closes)
	middle, std := rollingMeanStd(closes, b.opt.Period)
	res := &BollingerResult{
		Upper:     make([]float64, n),
		Middle:    middle,
		Lower:     make([]float64, n),
		PctB:      make([]float64, n),
		Bandwidth: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		half := b.opt.StdDev * std[i]
		u, l := middle[i]+half, middle[i]-half
		res.Upper[i], res.Lower[i] = u, l

		res.Bandwidth[i] = math.NaN()
		if middle[i] != 0 {
			res.Bandwidth[i] = (u - l) / middle[i]
		}
		res.PctB[i] = math.NaN()
		if u != l {
			res.PctB[i] = (closes[i] - l) / (u - l)
		}
	}

	res.Squeeze = last(res.Bandwidth) < b.opt.SqueezeThreshold
	res.Signal = b.classify(closes, res)
	return res, nil
}

// classify evaluates squeeze, expansion, breaks and touches in that order.
// Breaks compare both closes with the current band.
func (b *Bollinger) classify(closes []float64, res *BollingerResult) BollingerSignal {
	if res.Squeeze {
		return BollingerSqueeze
	}
	if len(res.Bandwidth) >= 2 && last(res.Bandwidth) > prev(res.Bandwidth)*expansionRatio {
		return BollingerExpansion
	}

	c, u, l := last(closes), last(res.Upper), last(res.Lower)
	pc := c
	if len(closes) >= 2 {
		pc = prev(closes)
	}

	switch {
	case c > u && pc <= u:
		return BollingerUpperBreak
	case c < l && pc >= l:
		return BollingerLowerBreak
	case c >= u*(1-touchTolerance):
		return BollingerUpperTouch
	case c <= l*(1+touchTolerance):
		return BollingerLowerTouch
	default:
		return BollingerNeutral
	}
}
