package indicator

import (
	"math"
	"math/rand"
	"testing"
)

// linspace returns n evenly spaced values from start to end inclusive.
func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// randomWalk returns log-normal closes from 100 with a fixed seed.
func randomWalk(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		price *= math.Exp(0.0002 + 0.015*rng.NormFloat64())
		out[i] = price
	}
	return out
}

// ohlcv derives high, low and volume around closes.
func ohlcv(closes []float64, seed int64) (high, low, volume []float64) {
	rng := rand.New(rand.NewSource(seed))
	high = make([]float64, len(closes))
	low = make([]float64, len(closes))
	volume = make([]float64, len(closes))
	for i, c := range closes {
		high[i] = c * (1 + math.Abs(0.008*rng.NormFloat64()))
		low[i] = c * (1 - math.Abs(0.008*rng.NormFloat64()))
		volume[i] = float64(100_000 + rng.Intn(4_900_000))
	}
	return high, low, volume
}

// rangeBound returns closes that oscillate uniformly in [99, 101].
func rangeBound(n int) []float64 {
	state := uint32(42)
	out := make([]float64, n)
	for i := range out {
		state = state*1664525 + 1013904223
		out[i] = 100 + (float64(state)/4294967296-0.5)*2
	}
	return out
}

// assertSameBits fails unless a and b are bit-identical, NaNs included.
func assertSameBits(t *testing.T, a, b []float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("length %d != %d", len(a), len(b))
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}
	}
}
