package domain

import "fmt"

// Resample folds every n consecutive candles into one bar of the given
// interval. A trailing partial group becomes an in-progress bar.
func Resample(candles CandleList, n int, interval TimeInterval) (CandleList, error) {
	if n <= 0 {
		return nil, fmt.Errorf("resample factor must be > 0, got %d", n)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles to resample")
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].OpenTime.Before(candles[i-1].OpenTime) {
			return nil, fmt.Errorf("candles are not in chronological order at index %d", i)
		}
	}

	out := make(CandleList, 0, (len(candles)+n-1)/n)
	for start := 0; start < len(candles); start += n {
		end := start + n
		if end > len(candles) {
			end = len(candles)
		}
		out = append(out, merge(candles[start:end], interval))
	}
	return out, nil
}

// merge collapses a group into one bar: first open, last close, extreme
// high and low, summed volume.
func merge(group CandleList, interval TimeInterval) Candle {
	bar := Candle{
		Symbol:    group[0].Symbol,
		Interval:  interval,
		OpenTime:  group[0].OpenTime,
		CloseTime: group[len(group)-1].CloseTime,
		Open:      group[0].Open,
		High:      group[0].High,
		Low:       group[0].Low,
		Close:     group[len(group)-1].Close,
	}
	for _, c := range group {
		if c.High > bar.High {
			bar.High = c.High
		}
		if c.Low < bar.Low {
			bar.Low = c.Low
		}
		bar.Volume += c.Volume
	}
	return bar
}
