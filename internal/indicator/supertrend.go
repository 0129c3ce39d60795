package indicator

import (
	"fmt"
	"math"
)

// SuperTrendSignal classifies the latest trend transition.
type SuperTrendSignal string

const (
	SuperTrendBuy     SuperTrendSignal = "buy_signal"
	SuperTrendSell    SuperTrendSignal = "sell_signal"
	SuperTrendBullish SuperTrendSignal = "bullish"
	SuperTrendBearish SuperTrendSignal = "bearish"
)

// SuperTrendSignals lists every trend classification.
var SuperTrendSignals = []SuperTrendSignal{
	SuperTrendBuy, SuperTrendSell, SuperTrendBullish, SuperTrendBearish,
}

// Trend directions.
const (
	Bullish = 1
	Bearish = -1
)

const strengthEpsilon = 1e-9

// SuperTrendOption configures the trend line.
type SuperTrendOption struct {
	Period     int     `yaml:"period" default:"10"`
	Multiplier float64 `yaml:"multiplier" default:"3.0"`
}

// DefaultSuperTrendOption returns a 10 bar ATR at 3x.
func DefaultSuperTrendOption() SuperTrendOption {
	return SuperTrendOption{Period: 10, Multiplier: 3.0}
}

// ValidateSuperTrendOption checks a trend line option.
func ValidateSuperTrendOption(opt SuperTrendOption) error {
	if opt.Period <= 0 {
		return &ValidationError{Field: "Period", Err: fmt.Errorf("must be > 0: %d", opt.Period)}
	}
	if opt.Multiplier <= 0 {
		return &ValidationError{Field: "Multiplier", Err: fmt.Errorf("must be > 0: %v", opt.Multiplier)}
	}
	return nil
}

// SuperTrendPoint is the state emitted for one bar.
type SuperTrendPoint struct {
	ATR       float64
	Upper     float64 // final upper band
	Lower     float64 // final lower band
	Line      float64
	Direction int
}

// SuperTrendState folds bars one at a time. It carries the previous final
// bands, direction, close and ATR, so history is never recomputed. A state
// belongs to a single series and is not safe for concurrent use.
type SuperTrendState struct {
	multiplier float64
	alpha      float64

	started   bool
	atr       float64
	upper     float64
	lower     float64
	prevClose float64
	direction int
}

// Step advances the state by one bar.
func (s *SuperTrendState) Step(high, low, closePrice float64) SuperTrendPoint {
	tr := high - low
	if s.started {
		tr = math.Max(tr, math.Max(math.Abs(high-s.prevClose), math.Abs(low-s.prevClose)))
	}

	hl2 := (high + low) / 2
	if !s.started {
		s.atr = tr
		s.upper = hl2 + s.multiplier*s.atr
		s.lower = hl2 - s.multiplier*s.atr
		s.direction = Bullish
		s.started = true
		s.prevClose = closePrice
		return s.point()
	}

	s.atr = s.alpha*tr + (1-s.alpha)*s.atr
	basicUpper := hl2 + s.multiplier*s.atr
	basicLower := hl2 - s.multiplier*s.atr

	// A final band only moves against the trend on a tighter basic value or
	// after the previous close broke through it.
	if basicUpper < s.upper || s.prevClose > s.upper {
		s.upper = basicUpper
	}
	if basicLower > s.lower || s.prevClose < s.lower {
		s.lower = basicLower
	}

	if s.direction == Bearish {
		if closePrice > s.upper {
			s.direction = Bullish
		}
	} else if closePrice < s.lower {
		s.direction = Bearish
	}

	s.prevClose = closePrice
	return s.point()
}

func (s *SuperTrendState) point() SuperTrendPoint {
	line := s.lower
	if s.direction == Bearish {
		line = s.upper
	}
	return SuperTrendPoint{ATR: s.atr, Upper: s.upper, Lower: s.lower, Line: line, Direction: s.direction}
}

// SuperTrendResult holds one trend line calculation.
type SuperTrendResult struct {
	Line       []float64
	Direction  []int
	ATR        []float64
	Signal     SuperTrendSignal
	Support    float64 // line when bullish, else NaN
	Resistance float64 // line when bearish, else NaN
	Strength   float64 // distance from the line in ATRs, capped at 1
}

// SuperTrend is an ATR trailing stop-and-reverse line.
type SuperTrend struct {
	opt SuperTrendOption
}

// NewSuperTrend returns a trend line calculator.
func NewSuperTrend(opt SuperTrendOption) (*SuperTrend, error) {
	if err := ValidateSuperTrendOption(opt); err != nil {
		return nil, err
	}
	return &SuperTrend{opt: opt}, nil
}

// Option returns the calculator's configuration.
func (s *SuperTrend) Option() SuperTrendOption { return s.opt }

// NewState returns an empty stepper for bar-by-bar updates.
func (s *SuperTrend) NewState() *SuperTrendState {
	return &SuperTrendState{
		multiplier: s.opt.Multiplier,
		alpha:      2.0 / float64(s.opt.Period+1),
	}
}

// Calculate folds the stepper over the window. The first bar starts bullish
// with the line on the lower band.
func (s *SuperTrend) Calculate(high, low, closes []float64) (*SuperTrendResult, error) {
	if err := requireAligned(map[string][]float64{"high": high, "low": low, "close": closes}); err != nil {
		return nil, err
	}

	n := len(closes)
	res := &SuperTrendResult{
		Line:      make([]float64, n),
		Direction: make([]int, n),
		ATR:       make([]float64, n),
	}
	state := s.NewState()
	for i := 0; i < n; i++ {
		p := state.Step(high[i], low[i], closes[i])
		res.Line[i] = p.Line
		res.Direction[i] = p.Direction
		res.ATR[i] = p.ATR
	}

	dir := res.Direction[n-1]
	prevDir := dir
	if n >= 2 {
		prevDir = res.Direction[n-2]
	}
	res.Signal = classifySuperTrend(prevDir, dir)

	line := res.Line[n-1]
	res.Support, res.Resistance = math.NaN(), math.NaN()
	if dir == Bullish {
		res.Support = line
	} else {
		res.Resistance = line
	}
	res.Strength = math.Min(1, math.Abs(closes[n-1]-line)/(res.ATR[n-1]+strengthEpsilon))
	return res, nil
}

func classifySuperTrend(prevDir, dir int) SuperTrendSignal {
	switch {
	case prevDir == Bearish && dir == Bullish:
		return SuperTrendBuy
	case prevDir == Bullish && dir == Bearish:
		return SuperTrendSell
	case dir == Bullish:
		return SuperTrendBullish
	default:
		return SuperTrendBearish
	}
}
