// Package indicator implements the technical indicators behind the composite
// rating. Every calculator is an immutable option value with a Calculate
// method that is a pure function of its input series; calculators are safe
// for concurrent use.
//
// Insufficient history yields NaN samples and a neutral classification
// rather than an error. Errors are reserved for invalid options, empty input
// and misaligned series.
package indicator

import (
	"fmt"
	"math"

	"github.com/assist-by/signalhub/internal/domain"
)

// ValidationError reports an invalid option or input series.
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// requireSeries rejects empty input.
func requireSeries(field string, s []float64) error {
	if len(s) == 0 {
		return &ValidationError{Field: field, Err: fmt.Errorf("series is empty")}
	}
	return nil
}

// requireAligned rejects empty or misaligned high/low/close(/volume) input.
func requireAligned(series map[string][]float64) error {
	for name, s := range series {
		if err := requireSeries(name, s); err != nil {
			return err
		}
	}
	return domain.CheckAligned(series)
}

// last returns the final sample, or NaN for an empty series.
func last(s []float64) float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// prev returns the sample before the final one, or NaN.
func prev(s []float64) float64 {
	if len(s) < 2 {
		return math.NaN()
	}
	return s[len(s)-2]
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
