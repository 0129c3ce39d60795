package composite

import (
	"fmt"

	"github.com/assist-by/signalhub/internal/indicator"
)

// Component keys.
const (
	ComponentRSI  = "rsi"
	ComponentMACD = "macd"
	ComponentBB   = "bb"
	ComponentST   = "st"
	ComponentVWAP = "vwap"
)

// Components lists every component in reporting order.
var Components = []string{ComponentRSI, ComponentMACD, ComponentBB, ComponentST, ComponentVWAP}

// Labels for components that did not produce a classification.
const (
	LabelNA    = "n/a"
	LabelError = "error"
)

var weights = map[string]float64{
	ComponentRSI:  0.20,
	ComponentMACD: 0.25,
	ComponentBB:   0.15,
	ComponentST:   0.25,
	ComponentVWAP: 0.15,
}

// Weight returns the fixed weight of a component, or zero.
func Weight(component string) float64 {
	return weights[component]
}

// UnknownSignalError reports a classification missing from a score table.
type UnknownSignalError struct {
	Component string
	Label     string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("%s: no score for classification %q", e.Component, e.Label)
}

// RSIScore maps an RSI classification to its vote.
func RSIScore(s indicator.RSISignal) (float64, error) {
	switch s {
	case indicator.RSIOversold:
		return 1.0, nil
	case indicator.RSIBullishDivergence:
		return 0.8, nil
	case indicator.RSINeutral:
		return 0, nil
	case indicator.RSIBearishDivergence:
		return -0.8, nil
	case indicator.RSIOverbought:
		return -1.0, nil
	}
	return 0, &UnknownSignalError{Component: ComponentRSI, Label: string(s)}
}

// MACDScore maps a MACD classification to its vote.
func MACDScore(s indicator.MACDSignal) (float64, error) {
	switch s {
	case indicator.MACDBullishCross:
		return 1.0, nil
	case indicator.MACDZeroCrossUp:
		return 0.8, nil
	case indicator.MACDMomentumUp:
		return 0.4, nil
	case indicator.MACDNeutral:
		return 0, nil
	case indicator.MACDMomentumDown:
		return -0.4, nil
	case indicator.MACDZeroCrossDn:
		return -0.8, nil
	case indicator.MACDBearishCross:
		return -1.0, nil
	}
	return 0, &UnknownSignalError{Component: ComponentMACD, Label: string(s)}
}

// BollingerScore maps a band classification to its vote.
func BollingerScore(s indicator.BollingerSignal) (float64, error) {
	switch s {
	case indicator.BollingerLowerBreak:
		return 1.0, nil
	case indicator.BollingerLowerTouch:
		return 0.6, nil
	case indicator.BollingerSqueeze, indicator.BollingerNeutral, indicator.BollingerExpansion:
		return 0, nil
	case indicator.BollingerUpperTouch:
		return -0.6, nil
	case indicator.BollingerUpperBreak:
		return -1.0, nil
	}
	return 0, &UnknownSignalError{Component: ComponentBB, Label: string(s)}
}

// SuperTrendScore maps a trend classification to its vote.
func SuperTrendScore(s indicator.SuperTrendSignal) (float64, error) {
	switch s {
	case indicator.SuperTrendBuy:
		return 1.0, nil
	case indicator.SuperTrendBullish:
		return 0.7, nil
	case indicator.SuperTrendBearish:
		return -0.7, nil
	case indicator.SuperTrendSell:
		return -1.0, nil
	}
	return 0, &UnknownSignalError{Component: ComponentST, Label: string(s)}
}

// VWAPScore maps a VWAP classification to its vote.
func VWAPScore(s indicator.VWAPSignal) (float64, error) {
	switch s {
	case indicator.VWAPCrossUp:
		return 1.0, nil
	case indicator.VWAPAt2SDLower:
		return 0.8, nil
	case indicator.VWAPAt1SDLower:
		return 0.4, nil
	case indicator.VWAPAbove:
		return 0.2, nil
	case indicator.VWAPBelow:
		return -0.2, nil
	case indicator.VWAPAt1SDUpper:
		return -0.4, nil
	case indicator.VWAPAt2SDUpper:
		return -0.8, nil
	case indicator.VWAPCrossDown:
		return -1.0, nil
	}
	return 0, &UnknownSignalError{Component: ComponentVWAP, Label: string(s)}
}
