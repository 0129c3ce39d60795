package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{
			name:   "aligned without volume",
			window: Window{High: []float64{2, 3}, Low: []float64{1, 2}, Close: []float64{1.5, 2.5}},
		},
		{
			name: "aligned with open and volume",
			window: Window{
				Open: []float64{1, 2}, High: []float64{2, 3}, Low: []float64{1, 2},
				Close: []float64{1.5, 2.5}, Volume: []float64{10, 20},
			},
		},
		{
			name:    "short low",
			window:  Window{High: []float64{2, 3}, Low: []float64{1}, Close: []float64{1.5, 2.5}},
			wantErr: true,
		},
		{
			name:    "short volume",
			window:  Window{High: []float64{2, 3}, Low: []float64{1, 2}, Close: []float64{1.5, 2.5}, Volume: []float64{5}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var lm *LengthMismatchError
			require.True(t, errors.As(err, &lm))
			assert.Contains(t, err.Error(), "close=2")
		})
	}
}

func TestCandleListWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := CandleList{
		{OpenTime: base, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{OpenTime: base.Add(time.Hour), Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 200},
	}

	w := candles.Window()
	require.NoError(t, w.Validate())
	assert.Equal(t, []float64{1.5, 2.5}, w.Close)
	assert.True(t, w.HasVolume())

	for i := range candles {
		candles[i].Volume = 0
	}
	assert.False(t, candles.Window().HasVolume())
}

func TestResample(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var hourly CandleList
	for i := 0; i < 10; i++ {
		hourly = append(hourly, Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1)*time.Hour - time.Millisecond),
			Open:      float64(100 + i),
			High:      float64(101 + i),
			Low:       float64(99 + i),
			Close:     float64(100 + i),
			Volume:    10,
		})
	}

	out, err := Resample(hourly, 4, Interval4h)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 100.0, out[0].Open)
	assert.Equal(t, 103.0, out[0].Close)
	assert.Equal(t, 104.0, out[0].High)
	assert.Equal(t, 99.0, out[0].Low)
	assert.Equal(t, 40.0, out[0].Volume)
	assert.Equal(t, Interval4h, out[0].Interval)

	// trailing partial bar
	assert.Equal(t, 20.0, out[2].Volume)
	assert.Equal(t, 109.0, out[2].Close)

	_, err = Resample(hourly, 0, Interval4h)
	assert.Error(t, err)
	_, err = Resample(CandleList{hourly[1], hourly[0]}, 2, Interval2h)
	assert.Error(t, err)
}

func TestCandleListGetSubList(t *testing.T) {
	cl := CandleList{{Close: 1}, {Close: 2}, {Close: 3}, {Close: 4}}

	sub, ok := cl.GetSubList(1, 3)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 3}, sub.Closes())

	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 2},
		{"end past length", 2, 5},
		{"empty range", 2, 2},
		{"inverted", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := cl.GetSubList(tt.start, tt.end)
			assert.False(t, ok)
		})
	}
}
