package composite

import (
	"context"
	"fmt"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/metrics"
	"github.com/assist-by/signalhub/internal/strategy"
)

// StrategyName is the registry key of the composite strategy.
const StrategyName = "COMPOSITE"

// Strategy adapts Engine to strategy.Strategy and adds a multi-timeframe
// RSI read built by resampling the candles.
type Strategy struct {
	strategy.BaseStrategy
	engine     *Engine
	mtfFactors []int
}

// NewStrategy builds the composite strategy. Recognized keys override the
// defaults: rsiPeriod, rsiOverbought, rsiOversold, rsiDivergenceLookback,
// macdFast, macdSlow, macdSignal, bbPeriod, bbStdDev, bbSqueeze, stPeriod,
// stMultiplier, vwapSessionReset, parallel and mtfFactors.
func NewStrategy(config map[string]interface{}) (strategy.Strategy, error) {
	opt := DefaultOption()
	parallel := false
	mtfFactors := []int{1, 4, 24}

	if config != nil {
		setInt(config, "rsiPeriod", &opt.RSI.Period)
		setFloat(config, "rsiOverbought", &opt.RSI.Overbought)
		setFloat(config, "rsiOversold", &opt.RSI.Oversold)
		setInt(config, "rsiDivergenceLookback", &opt.RSI.DivergenceLookback)
		setInt(config, "macdFast", &opt.MACD.FastPeriod)
		setInt(config, "macdSlow", &opt.MACD.SlowPeriod)
		setInt(config, "macdSignal", &opt.MACD.SignalPeriod)
		setInt(config, "bbPeriod", &opt.Bollinger.Period)
		setFloat(config, "bbStdDev", &opt.Bollinger.StdDev)
		setFloat(config, "bbSqueeze", &opt.Bollinger.SqueezeThreshold)
		setInt(config, "stPeriod", &opt.SuperTrend.Period)
		setFloat(config, "stMultiplier", &opt.SuperTrend.Multiplier)
		if val, ok := config["vwapSessionReset"].(bool); ok {
			opt.VWAP.SessionReset = val
		}
		if val, ok := config["parallel"].(bool); ok {
			parallel = val
		}
		if val, ok := config["mtfFactors"].([]int); ok {
			mtfFactors = val
		}
	}

	engine, err := NewEngine(opt, WithParallel(parallel))
	if err != nil {
		return nil, err
	}

	return &Strategy{
		BaseStrategy: strategy.BaseStrategy{
			Name:        StrategyName,
			Description: "Weighted vote of RSI, MACD, Bollinger Bands, SuperTrend and VWAP",
			Config:      config,
		},
		engine:     engine,
		mtfFactors: mtfFactors,
	}, nil
}

// RegisterStrategy adds the composite strategy to registry.
func RegisterStrategy(registry *strategy.Registry) {
	registry.Register(StrategyName, NewStrategy)
}

// Engine returns the underlying engine.
func (s *Strategy) Engine() *Engine { return s.engine }

// Analyze rates the latest candle.
func (s *Strategy) Analyze(ctx context.Context, symbol string, candles domain.CandleList) (*domain.CompositeSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lastCandle, ok := candles.GetLastCandle()
	if !ok {
		return nil, fmt.Errorf("no candles for %s", symbol)
	}

	sig, err := s.engine.Run(candles.Window())
	if err != nil {
		return nil, fmt.Errorf("composite analysis of %s: %w", symbol, err)
	}
	sig.Symbol = symbol
	sig.Interval = lastCandle.Interval
	sig.RSIFrames = s.rsiFrames(symbol, candles, lastCandle.Interval)

	for name, msg := range sig.Errors {
		metrics.IndicatorFailures.WithLabelValues(name).Inc()
		logger.Warn("indicator failed",
			logger.String("symbol", symbol),
			logger.String("indicator", name),
			logger.String("error", msg))
	}
	metrics.SignalsComputed.WithLabelValues(string(sig.Rating)).Inc()

	logger.Debug("composite computed",
		logger.String("symbol", symbol),
		logger.String("rating", string(sig.Rating)),
		logger.Float64("score", sig.Score))
	return sig, nil
}

// rsiFrames classifies RSI on the base candles and on coarser resamples.
// Frames that cannot be built are skipped.
func (s *Strategy) rsiFrames(symbol string, candles domain.CandleList, base domain.TimeInterval) map[string]string {
	frames := make(map[string][]float64, len(s.mtfFactors))
	for _, f := range s.mtfFactors {
		name := frameName(base, f)
		bars := candles
		if f > 1 {
			var err error
			if bars, err = domain.Resample(candles, f, domain.TimeInterval(name)); err != nil {
				logger.Debug("rsi frame skipped", logger.String("symbol", symbol), logger.Int("factor", f), logger.ErrorField(err))
				continue
			}
		}
		frames[name] = bars.Closes()
	}

	results, err := s.engine.RSI().MTF(frames)
	if err != nil {
		logger.Debug("rsi mtf failed", logger.String("symbol", symbol), logger.ErrorField(err))
		return nil
	}
	out := make(map[string]string, len(results))
	for name, res := range results {
		out[name] = string(res.Signal)
	}
	return out
}

func frameName(base domain.TimeInterval, factor int) string {
	if base == "" {
		return fmt.Sprintf("x%d", factor)
	}
	return string(base.Scale(factor))
}

func setInt(config map[string]interface{}, key string, dst *int) {
	if val, ok := config[key].(int); ok {
		*dst = val
	}
}

func setFloat(config map[string]interface{}, key string, dst *float64) {
	switch val := config[key].(type) {
	case float64:
		*dst = val
	case int:
		*dst = float64(val)
	}
}
