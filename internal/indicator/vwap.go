package indicator

import (
	"fmt"
	"math"
)

// VWAPSignal classifies the latest close against the anchor and its bands.
type VWAPSignal string

const (
	VWAPAbove      VWAPSignal = "above_vwap"
	VWAPBelow      VWAPSignal = "below_vwap"
	VWAPCrossUp    VWAPSignal = "cross_up"
	VWAPCrossDown  VWAPSignal = "cross_down"
	VWAPAt1SDUpper VWAPSignal = "at_1sd_upper"
	VWAPAt1SDLower VWAPSignal = "at_1sd_lower"
	VWAPAt2SDUpper VWAPSignal = "at_2sd_upper"
	VWAPAt2SDLower VWAPSignal = "at_2sd_lower"
)

// VWAPSignals lists every VWAP classification.
var VWAPSignals = []VWAPSignal{
	VWAPAbove, VWAPBelow, VWAPCrossUp, VWAPCrossDown,
	VWAPAt1SDUpper, VWAPAt1SDLower, VWAPAt2SDUpper, VWAPAt2SDLower,
}

// VWAPOption configures the VWAP calculator.
type VWAPOption struct {
	// SessionReset is reserved for session-boundary resets and does not
	// change the calculation yet.
	SessionReset bool `yaml:"session_reset" default:"true"`
}

// DefaultVWAPOption returns the default VWAP option.
func DefaultVWAPOption() VWAPOption {
	return VWAPOption{SessionReset: true}
}

// VWAPResult holds one VWAP calculation.
type VWAPResult struct {
	VWAP   []float64
	Upper1 []float64
	Lower1 []float64
	Upper2 []float64
	Lower2 []float64
	Signal VWAPSignal
	Last   float64
}

// VWAP is a cumulative volume-weighted average price with volume-weighted
// standard deviation bands.
type VWAP struct {
	opt VWAPOption
}

// NewVWAP returns a VWAP calculator.
func NewVWAP(opt VWAPOption) *VWAP {
	return &VWAP{opt: opt}
}

// Option returns the calculator's configuration.
func (v *VWAP) Option() VWAPOption { return v.opt }

// Calculate accumulates from the first bar of the window.
func (v *VWAP) Calculate(high, low, closes, volume []float64) (*VWAPResult, error) {
	return v.Anchored(high, low, closes, volume, 0)
}

// Anchored restarts the cumulative sums at start. The result covers bars
// start through the end of the window.
func (v *VWAP) Anchored(high, low, closes, volume []float64, start int) (*VWAPResult, error) {
	if err := requireAligned(map[string][]float64{
		"high": high, "low": low, "close": closes, "volume": volume,
	}); err != nil {
		return nil, err
	}
	if start < 0 || start >= len(closes) {
		return nil, &ValidationError{Field: "start", Err: fmt.Errorf("anchor %d outside [0, %d)", start, len(closes))}
	}

	high, low, closes, volume = high[start:], low[start:], closes[start:], volume[start:]
	n := len(closes)
	res := &VWAPResult{
		VWAP:   make([]float64, n),
		Upper1: make([]float64, n),
		Lower1: make([]float64, n),
		Upper2: make([]float64, n),
		Lower2: make([]float64, n),
	}

	cumVol, cumTPV, cumSq := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		tp := (high[i] + low[i] + closes[i]) / 3
		cumVol += volume[i]
		cumTPV += tp * volume[i]

		anchor, sd := math.NaN(), math.NaN()
		if cumVol != 0 {
			anchor = cumTPV / cumVol
			d := tp - anchor
			cumSq += d * d * volume[i]
			sd = math.Sqrt(cumSq / cumVol)
		}

		res.VWAP[i] = anchor
		res.Upper1[i], res.Lower1[i] = anchor+sd, anchor-sd
		res.Upper2[i], res.Lower2[i] = anchor+2*sd, anchor-2*sd
	}

	res.Last = last(res.VWAP)
	res.Signal = classifyVWAP(closes, res)
	return res, nil
}

// classifyVWAP checks crosses, then the 2 sigma bands, then the 1 sigma
// bands, then the side of the anchor.
func classifyVWAP(closes []float64, res *VWAPResult) VWAPSignal {
	if len(closes) < 2 {
		return VWAPAbove
	}

	c, pc := last(closes), prev(closes)
	a, pa := last(res.VWAP), prev(res.VWAP)
	switch {
	case pc < pa && c >= a:
		return VWAPCrossUp
	case pc > pa && c <= a:
		return VWAPCrossDown
	case c >= last(res.Upper2):
		return VWAPAt2SDUpper
	case c <= last(res.Lower2):
		return VWAPAt2SDLower
	case c >= last(res.Upper1):
		return VWAPAt1SDUpper
	case c <= last(res.Lower1):
		return VWAPAt1SDLower
	case c >= a:
		return VWAPAbove
	default:
		return VWAPBelow
	}
}
