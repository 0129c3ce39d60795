package domain

import (
	"fmt"
	"strings"
)

// Window is an OHLCV window sharing one time index. Open and Volume are
// optional; High, Low and Close are required.
type Window struct {
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// LengthMismatchError reports series that do not share one index.
type LengthMismatchError struct {
	Lengths map[string]int
}

func (e *LengthMismatchError) Error() string {
	parts := make([]string, 0, len(e.Lengths))
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		if n, ok := e.Lengths[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", name, n))
		}
	}
	return "series length mismatch: " + strings.Join(parts, ", ")
}

// Len returns the number of bars, taken from the close column.
func (w Window) Len() int {
	return len(w.Close)
}

// HasVolume reports whether a non-empty volume column is present.
func (w Window) HasVolume() bool {
	return len(w.Volume) > 0
}

// Validate checks that every present column has the length of Close.
func (w Window) Validate() error {
	return CheckAligned(map[string][]float64{
		"open":   w.Open,
		"high":   w.High,
		"low":    w.Low,
		"close":  w.Close,
		"volume": w.Volume,
	}, "open", "volume")
}

// CheckAligned returns a *LengthMismatchError when the named series differ in
// length. Series listed in optional are skipped when empty.
func CheckAligned(series map[string][]float64, optional ...string) error {
	skip := make(map[string]bool, len(optional))
	for _, name := range optional {
		skip[name] = len(series[name]) == 0
	}

	lengths := make(map[string]int, len(series))
	want := -1
	mismatch := false
	for name, s := range series {
		if skip[name] {
			continue
		}
		lengths[name] = len(s)
		if want == -1 {
			want = len(s)
		} else if len(s) != want {
			mismatch = true
		}
	}
	if mismatch {
		return &LengthMismatchError{Lengths: lengths}
	}
	return nil
}
