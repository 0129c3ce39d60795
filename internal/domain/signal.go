package domain

import (
	"math"
	"time"
)

// CompositeSignal is the blended rating for one window.
type CompositeSignal struct {
	Symbol    string       `json:"symbol,omitempty"`
	Interval  TimeInterval `json:"interval,omitempty"`
	Timestamp time.Time    `json:"timestamp"`

	Score  float64 `json:"score"` // [-1, +1], four decimals
	Rating Rating  `json:"rating"`

	RSISignal  string `json:"rsi_signal"`
	MACDSignal string `json:"macd_signal"`
	BBSignal   string `json:"bb_signal"`
	STSignal   string `json:"st_signal"`
	VWAPSignal string `json:"vwap_signal"`

	// Components holds each indicator's vote in [-1, +1] before weighting.
	Components map[string]float64 `json:"components"`
	// Errors holds indicators that failed; their vote is zero.
	Errors map[string]string `json:"errors,omitempty"`

	Diagnostics Diagnostics       `json:"diagnostics"`
	RSIFrames   map[string]string `json:"rsi_mtf,omitempty"`
}

// Diagnostics carries the latest scalar readings. Undefined readings are nil.
type Diagnostics struct {
	RSI        *float64 `json:"rsi"`
	MACD       *float64 `json:"macd"`
	MACDHist   *float64 `json:"macd_hist"`
	PctB       *float64 `json:"pct_b"`
	Bandwidth  *float64 `json:"bandwidth"`
	SuperTrend *float64 `json:"supertrend"`
	Strength   *float64 `json:"st_strength"`
	Support    *float64 `json:"support"`
	Resistance *float64 `json:"resistance"`
	VWAP       *float64 `json:"vwap"`
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
