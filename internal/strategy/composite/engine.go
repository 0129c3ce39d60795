// Package composite blends the five indicator classifications into one
// weighted score and rating.
package composite

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/indicator"
)

// Option bundles the configuration of every indicator.
type Option struct {
	RSI        indicator.RSIOption        `yaml:"rsi"`
	MACD       indicator.MACDOption       `yaml:"macd"`
	Bollinger  indicator.BollingerOption  `yaml:"bollinger"`
	SuperTrend indicator.SuperTrendOption `yaml:"supertrend"`
	VWAP       indicator.VWAPOption       `yaml:"vwap"`
}

// DefaultOption returns the default configuration of every indicator.
func DefaultOption() Option {
	return Option{
		RSI:        indicator.DefaultRSIOption(),
		MACD:       indicator.DefaultMACDOption(),
		Bollinger:  indicator.DefaultBollingerOption(),
		SuperTrend: indicator.DefaultSuperTrendOption(),
		VWAP:       indicator.DefaultVWAPOption(),
	}
}

// Engine runs the indicators over a window and aggregates their votes. It
// holds only immutable calculators and is safe for concurrent use.
type Engine struct {
	opt      Option
	rsi      *indicator.RSI
	macd     *indicator.MACD
	bb       *indicator.Bollinger
	st       *indicator.SuperTrend
	vwap     *indicator.VWAP
	parallel bool
	now      func() time.Time

	// evaluators run in Components order.
	evaluators []evaluator
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithParallel evaluates the indicators concurrently. Results are identical
// to sequential evaluation.
func WithParallel(parallel bool) EngineOption {
	return func(e *Engine) {
		e.parallel = parallel
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine validates opt and builds the calculators.
func NewEngine(opt Option, opts ...EngineOption) (*Engine, error) {
	e := &Engine{opt: opt, vwap: indicator.NewVWAP(opt.VWAP), now: time.Now}

	var err error
	if e.rsi, err = indicator.NewRSI(opt.RSI); err != nil {
		return nil, fmt.Errorf("rsi option: %w", err)
	}
	if e.macd, err = indicator.NewMACD(opt.MACD); err != nil {
		return nil, fmt.Errorf("macd option: %w", err)
	}
	if e.bb, err = indicator.NewBollinger(opt.Bollinger); err != nil {
		return nil, fmt.Errorf("bollinger option: %w", err)
	}
	if e.st, err = indicator.NewSuperTrend(opt.SuperTrend); err != nil {
		return nil, fmt.Errorf("supertrend option: %w", err)
	}

	e.evaluators = []evaluator{e.evalRSI, e.evalMACD, e.evalBollinger, e.evalSuperTrend, e.evalVWAP}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Option returns the engine's configuration.
func (e *Engine) Option() Option { return e.opt }

// RSI returns the engine's RSI calculator.
func (e *Engine) RSI() *indicator.RSI { return e.rsi }

// vote is one component's outcome.
type vote struct {
	label string
	score float64
	err   error
}

type evaluator func(w domain.Window, d *domain.Diagnostics) vote

// Run evaluates every indicator on w. A misaligned or empty window fails the
// whole call. A failing indicator is reported in Errors, labeled "error" and
// contributes zero; the other components are still scored.
func (e *Engine) Run(w domain.Window) (*domain.CompositeSignal, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.Len() == 0 {
		return nil, &indicator.ValidationError{Field: "window", Err: fmt.Errorf("no bars")}
	}

	sig := &domain.CompositeSignal{
		Timestamp:  e.now(),
		Components: make(map[string]float64, len(Components)),
	}

	votes := make([]vote, len(e.evaluators))
	if e.parallel {
		var wg sync.WaitGroup
		for i, eval := range e.evaluators {
			wg.Add(1)
			go func(i int, eval evaluator) {
				defer wg.Done()
				votes[i] = eval(w, &sig.Diagnostics)
			}(i, eval)
		}
		wg.Wait()
	} else {
		for i, eval := range e.evaluators {
			votes[i] = eval(w, &sig.Diagnostics)
		}
	}

	total := 0.0
	for i, name := range Components {
		v := votes[i]
		if v.err != nil {
			if sig.Errors == nil {
				sig.Errors = make(map[string]string)
			}
			sig.Errors[name] = v.err.Error()
			v.score = 0
		}
		sig.Components[name] = v.score
		total += weights[name] * v.score
	}

	sig.RSISignal = votes[0].labelOr(LabelError)
	sig.MACDSignal = votes[1].labelOr(LabelError)
	sig.BBSignal = votes[2].labelOr(LabelError)
	sig.STSignal = votes[3].labelOr(LabelError)
	sig.VWAPSignal = votes[4].labelOr(LabelError)

	sig.Rating = domain.RatingFor(total)
	sig.Score, _ = decimal.NewFromFloat(total).Round(4).Float64()
	return sig, nil
}

func (v vote) labelOr(fallback string) string {
	if v.err != nil {
		return fallback
	}
	return v.label
}

// Each evaluator writes only its own Diagnostics fields, so they may run
// concurrently.

func (e *Engine) evalRSI(w domain.Window, d *domain.Diagnostics) vote {
	res, err := e.rsi.Calculate(w.Close)
	if err != nil {
		return vote{err: err}
	}
	d.RSI = domain.Finite(res.Last)
	score, err := RSIScore(res.Signal)
	return vote{label: string(res.Signal), score: score, err: err}
}

func (e *Engine) evalMACD(w domain.Window, d *domain.Diagnostics) vote {
	res, err := e.macd.Calculate(w.Close)
	if err != nil {
		return vote{err: err}
	}
	d.MACD = domain.Finite(res.LastMACD)
	d.MACDHist = domain.Finite(res.LastHist)
	score, err := MACDScore(res.Signal)
	return vote{label: string(res.Signal), score: score, err: err}
}

func (e *Engine) evalBollinger(w domain.Window, d *domain.Diagnostics) vote {
	res, err := e.bb.Calculate(w.Close)
	if err != nil {
		return vote{err: err}
	}
	d.PctB = domain.Finite(res.PctB[len(res.PctB)-1])
	d.Bandwidth = domain.Finite(res.Bandwidth[len(res.Bandwidth)-1])
	score, err := BollingerScore(res.Signal)
	return vote{label: string(res.Signal), score: score, err: err}
}

func (e *Engine) evalSuperTrend(w domain.Window, d *domain.Diagnostics) vote {
	res, err := e.st.Calculate(w.High, w.Low, w.Close)
	if err != nil {
		return vote{err: err}
	}
	d.SuperTrend = domain.Finite(res.Line[len(res.Line)-1])
	d.Strength = domain.Finite(res.Strength)
	d.Support = domain.Finite(res.Support)
	d.Resistance = domain.Finite(res.Resistance)
	score, err := SuperTrendScore(res.Signal)
	return vote{label: string(res.Signal), score: score, err: err}
}

func (e *Engine) evalVWAP(w domain.Window, d *domain.Diagnostics) vote {
	if !w.HasVolume() {
		return vote{label: LabelNA}
	}
	res, err := e.vwap.Calculate(w.High, w.Low, w.Close, w.Volume)
	if err != nil {
		return vote{err: err}
	}
	d.VWAP = domain.Finite(res.Last)
	score, err := VWAPScore(res.Signal)
	return vote{label: string(res.Signal), score: score, err: err}
}
