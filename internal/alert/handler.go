package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/metrics"
	"github.com/assist-by/signalhub/internal/notification"
	"github.com/assist-by/signalhub/internal/strategy"
)

// ErrInvalidAlert is returned for alerts that failed parsing.
var ErrInvalidAlert = errors.New("invalid alert")

// CandleSource supplies bars; market.Fetcher satisfies it.
type CandleSource interface {
	Get(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, string, error)
}

// Result is a handled alert.
type Result struct {
	Alert       *ParsedAlert
	Signal      *domain.CompositeSignal
	Source      string
	LastClose   float64
	ProcessedAt time.Time
	Latency     time.Duration
}

// Notification converts the result for delivery.
func (r *Result) Notification() notification.Alert {
	price := r.Alert.Price
	if price == 0 {
		price = r.LastClose
	}
	return notification.Alert{
		ID:          r.Alert.ID,
		Ticker:      r.Alert.Ticker,
		Exchange:    r.Alert.Exchange,
		Action:      r.Alert.Action,
		Price:       price,
		Signal:      r.Signal,
		Latency:     r.Latency,
		ProcessedAt: r.ProcessedAt,
	}
}

// Handler computes composite signals for alerts.
type Handler struct {
	source   CandleSource
	strategy strategy.Strategy
	limit    int
	now      func() time.Time
}

type HandlerOption func(*Handler)

// WithCandleLimit sets how many bars are fetched per analysis.
func WithCandleLimit(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.limit = n
		}
	}
}

func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

func NewHandler(source CandleSource, strat strategy.Strategy, opts ...HandlerOption) *Handler {
	h := &Handler{
		source:   source,
		strategy: strat,
		limit:    200,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle fetches bars for the alert's ticker and runs the strategy.
func (h *Handler) Handle(ctx context.Context, a *ParsedAlert) (*Result, error) {
	if a == nil || !a.Valid {
		return nil, ErrInvalidAlert
	}

	start := h.now()
	logger.Info("handling alert",
		logger.String("id", a.ID),
		logger.String("action", a.Action),
		logger.String("ticker", a.Ticker),
		logger.Float64("price", a.Price))

	interval := domain.ParseInterval(a.Interval)
	sig, candles, source, err := h.analyze(ctx, a.Ticker, interval)
	if err != nil {
		return nil, err
	}
	last, _ := candles.GetLastCandle()

	latency := h.now().Sub(start)
	metrics.AlertLatency.Observe(latency.Seconds())

	logger.Info("alert signal",
		logger.String("ticker", a.Ticker),
		logger.String("rating", string(sig.Rating)),
		logger.Float64("score", sig.Score),
		logger.String("rsi", sig.RSISignal),
		logger.String("macd", sig.MACDSignal),
		logger.String("st", sig.STSignal),
		logger.Duration("latency", latency))

	return &Result{
		Alert:       a,
		Signal:      sig,
		Source:      source,
		LastClose:   last.Close,
		ProcessedAt: h.now().UTC(),
		Latency:     latency,
	}, nil
}

// Signal runs a direct query for ticker.
func (h *Handler) Signal(ctx context.Context, ticker string, interval domain.TimeInterval) (*domain.CompositeSignal, error) {
	sig, _, _, err := h.analyze(ctx, ticker, interval)
	return sig, err
}

func (h *Handler) analyze(ctx context.Context, ticker string, interval domain.TimeInterval) (*domain.CompositeSignal, domain.CandleList, string, error) {
	candles, source, err := h.source.Get(ctx, ticker, interval, h.limit)
	if err != nil {
		logger.Error("data fetch failed", logger.String("ticker", ticker), logger.ErrorField(err))
		return nil, nil, "", fmt.Errorf("fetch %s: %w", ticker, err)
	}
	if recent, ok := candles.GetSubList(len(candles)-h.limit, len(candles)); ok {
		candles = recent
	}

	sig, err := h.strategy.Analyze(ctx, ticker, candles)
	if err != nil {
		logger.Error("indicator calculation failed", logger.String("ticker", ticker), logger.ErrorField(err))
		return nil, nil, source, fmt.Errorf("analyze %s: %w", ticker, err)
	}
	return sig, candles, source, nil
}

// NewWatchAlert builds a synthetic alert for scheduled analysis.
func NewWatchAlert(ticker string, interval domain.TimeInterval, now time.Time) *ParsedAlert {
	return &ParsedAlert{
		ID:        uuid.NewString(),
		Ticker:    strings.ToUpper(ticker),
		Action:    "watch",
		Interval:  string(interval),
		Timestamp: now.UTC(),
		Extra:     map[string]interface{}{},
		Valid:     true,
	}
}
