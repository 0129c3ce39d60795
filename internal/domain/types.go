package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeInterval is a candle interval in exchange notation.
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval30m TimeInterval = "30m"
	Interval1h  TimeInterval = "1h"
	Interval2h  TimeInterval = "2h"
	Interval4h  TimeInterval = "4h"
	Interval1d  TimeInterval = "1d"
	Interval1w  TimeInterval = "1w"
)

var intervalDurations = map[TimeInterval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval2h:  2 * time.Hour,
	Interval4h:  4 * time.Hour,
	Interval1d:  24 * time.Hour,
	Interval1w:  7 * 24 * time.Hour,
}

// Duration returns the bar length, or zero for an unknown interval.
func (ti TimeInterval) Duration() time.Duration {
	return intervalDurations[ti]
}

// Scale names the interval n bars of ti long, e.g. 1h scaled by 4 is 4h.
// Lengths without a standard name render as "1h*3".
func (ti TimeInterval) Scale(n int) TimeInterval {
	if n == 1 {
		return ti
	}
	want := ti.Duration() * time.Duration(n)
	for iv, d := range intervalDurations {
		if d == want && want > 0 {
			return iv
		}
	}
	return TimeInterval(fmt.Sprintf("%s*%d", ti, n))
}

// tradingViewIntervals maps chart alert intervals onto exchange intervals.
var tradingViewIntervals = map[string]TimeInterval{
	"1":   Interval1m,
	"1m":  Interval1m,
	"5":   Interval5m,
	"5m":  Interval5m,
	"15":  Interval15m,
	"15m": Interval15m,
	"30":  Interval30m,
	"30m": Interval30m,
	"60":  Interval1h,
	"1h":  Interval1h,
	"120": Interval2h,
	"2h":  Interval2h,
	"240": Interval4h,
	"4h":  Interval4h,
	"d":   Interval1d,
	"1d":  Interval1d,
	"w":   Interval1w,
	"1w":  Interval1w,
}

// ParseInterval resolves a chart or exchange interval. Unknown values fall
// back to one hour.
func ParseInterval(s string) TimeInterval {
	if iv, ok := tradingViewIntervals[strings.ToLower(strings.TrimSpace(s))]; ok {
		return iv
	}
	return Interval1h
}

// Rating is the five-tier composite label.
type Rating string

const (
	StrongBuy  Rating = "STRONG BUY"
	Buy        Rating = "BUY"
	Neutral    Rating = "NEUTRAL"
	Sell       Rating = "SELL"
	StrongSell Rating = "STRONG SELL"
)

// Ratings lists every rating from most bullish to most bearish.
var Ratings = []Rating{StrongBuy, Buy, Neutral, Sell, StrongSell}

// RatingFor maps a composite score in [-1, +1] onto a rating.
func RatingFor(score float64) Rating {
	switch {
	case score >= 0.6:
		return StrongBuy
	case score >= 0.2:
		return Buy
	case score >= -0.2:
		return Neutral
	case score >= -0.6:
		return Sell
	default:
		return StrongSell
	}
}

// Emoji returns the chat marker for a rating.
func (r Rating) Emoji() string {
	switch r {
	case StrongBuy:
		return "🟢"
	case Buy:
		return "🔵"
	case Sell:
		return "🟠"
	case StrongSell:
		return "🔴"
	default:
		return "⚪"
	}
}

// Notification colors.
const (
	ColorSuccess = 0x00FF00
	ColorError   = 0xFF0000
	ColorInfo    = 0x0000FF
	ColorWarning = 0xFFA500
)

// Color returns the embed color for a rating.
func (r Rating) Color() int {
	switch r {
	case StrongBuy, Buy:
		return ColorSuccess
	case StrongSell, Sell:
		return ColorError
	default:
		return ColorInfo
	}
}
