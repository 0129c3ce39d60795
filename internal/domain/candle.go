package domain

import "time"

// Candle is one OHLCV bar.
type Candle struct {
	OpenTime  time.Time    `json:"open_time"`
	CloseTime time.Time    `json:"close_time"`
	Open      float64      `json:"open"`
	High      float64      `json:"high"`
	Low       float64      `json:"low"`
	Close     float64      `json:"close"`
	Volume    float64      `json:"volume"`
	Symbol    string       `json:"symbol"`
	Interval  TimeInterval `json:"interval"`
}

// CandleList is a chronologically ordered run of candles, oldest first.
type CandleList []Candle

// GetLastCandle returns the most recent candle.
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// GetSubList returns cl[start:end] when the range is valid.
func (cl CandleList) GetSubList(start, end int) (CandleList, bool) {
	if start < 0 || end > len(cl) || start >= end {
		return nil, false
	}
	return cl[start:end], true
}

// Closes returns the close column.
func (cl CandleList) Closes() []float64 {
	out := make([]float64, len(cl))
	for i, c := range cl {
		out[i] = c.Close
	}
	return out
}

// Window splits the list into aligned OHLCV columns. Volume is left nil when
// every bar reports zero volume, which disables volume-based indicators.
func (cl CandleList) Window() Window {
	w := Window{
		Open:  make([]float64, len(cl)),
		High:  make([]float64, len(cl)),
		Low:   make([]float64, len(cl)),
		Close: make([]float64, len(cl)),
	}
	volume := make([]float64, len(cl))
	hasVolume := false
	for i, c := range cl {
		w.Open[i] = c.Open
		w.High[i] = c.High
		w.Low[i] = c.Low
		w.Close[i] = c.Close
		volume[i] = c.Volume
		if c.Volume != 0 {
			hasVolume = true
		}
	}
	if hasVolume {
		w.Volume = volume
	}
	return w
}
