package indicator

import "math"

// EMA returns the recursive exponential moving average of values with
// alpha = 2/(span+1), seeded by the first sample.
func EMA(values []float64, span int) []float64 {
	return ewm(values, 2.0/float64(span+1), 0)
}

// Wilder returns Wilder's smoothing of values (alpha = 1/period). Output is
// NaN until period defined samples have been seen.
func Wilder(values []float64, period int) []float64 {
	return ewm(values, 1.0/float64(period), period)
}

// ewm computes s[i] = alpha*x[i] + (1-alpha)*s[i-1], seeded by the first
// non-NaN sample. NaN inputs after the seed hold the previous state.
func ewm(values []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(values))
	state := math.NaN()
	seen := 0
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case seen == 0:
			state = v
			seen++
		default:
			state = alpha*v + (1-alpha)*state
			seen++
		}
		if seen == 0 || seen < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = state
	}
	return out
}

// rollingMeanStd returns the simple moving average and population standard
// deviation over a trailing window. Samples before a full window, or windows
// holding NaN, are NaN.
func rollingMeanStd(values []float64, period int) (mean, std []float64) {
	n := len(values)
	mean = nanSeries(n)
	std = nanSeries(n)
	for i := period - 1; i < n; i++ {
		window := values[i-period+1 : i+1]
		sum := 0.0
		for _, v := range window {
			sum += v
		}
		m := sum / float64(period)
		if math.IsNaN(m) {
			continue
		}
		ss := 0.0
		for _, v := range window {
			d := v - m
			ss += d * d
		}
		mean[i] = m
		std[i] = math.Sqrt(ss / float64(period))
	}
	return mean, std
}
