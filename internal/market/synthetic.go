package market

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
)

const (
	syntheticBars      = 200
	syntheticStart     = 100.0
	syntheticDrift     = 0.0002
	syntheticVol       = 0.015
	syntheticWickSigma = 0.008
	syntheticMinVolume = 100_000
	syntheticMaxVolume = 5_000_000
)

var syntheticEpoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// Synthetic generates a reproducible random walk per symbol. The same
// symbol always yields the same bars.
type Synthetic struct{}

// NewSynthetic creates the demo data source.
func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// GetKlines implements Provider.
func (s *Synthetic) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = syntheticBars
	}
	return Generate(symbol, interval, limit), nil
}

// Generate builds n bars seeded by the symbol's code point sum. Log
// returns are N(0.0002, 0.015) from a start of 100.
func Generate(symbol string, interval domain.TimeInterval, n int) domain.CandleList {
	symbol = strings.ToUpper(symbol)

	var seed int64
	for _, r := range symbol {
		seed += int64(r)
	}
	rng := rand.New(rand.NewSource(seed))

	step := interval.Duration()
	if step <= 0 {
		step = time.Hour
	}

	closes := make([]float64, n)
	logPrice := 0.0
	for i := range closes {
		logPrice += syntheticDrift + syntheticVol*rng.NormFloat64()
		closes[i] = syntheticStart * math.Exp(logPrice)
	}

	candles := make(domain.CandleList, n)
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		high := c * (1 + math.Abs(syntheticWickSigma*rng.NormFloat64()))
		low := c * (1 - math.Abs(syntheticWickSigma*rng.NormFloat64()))
		// keep the bar consistent when the open sits outside the wicks
		high = math.Max(high, open)
		low = math.Min(low, open)

		openTime := syntheticEpoch.Add(time.Duration(i) * step)
		candles[i] = domain.Candle{
			OpenTime:  openTime,
			CloseTime: openTime.Add(step - time.Millisecond),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     c,
			Volume:    float64(syntheticMinVolume + rng.Int63n(syntheticMaxVolume-syntheticMinVolume)),
			Symbol:    symbol,
			Interval:  interval,
		}
	}
	return candles
}
