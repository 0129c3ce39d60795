package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/assist-by/signalhub/internal/alert"
	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
)

// WatchTask analyzes a fixed symbol list and dispatches results through the
// alert router.
type WatchTask struct {
	symbols  []string
	interval domain.TimeInterval
	handler  *alert.Handler
	router   *alert.Router

	// onlyChanges suppresses dispatch while a symbol's rating is unchanged.
	onlyChanges bool
	mu          sync.Mutex
	last        map[string]domain.Rating
}

// NewWatchTask creates a watch task.
func NewWatchTask(symbols []string, interval domain.TimeInterval, handler *alert.Handler, router *alert.Router, onlyChanges bool) *WatchTask {
	return &WatchTask{
		symbols:     symbols,
		interval:    interval,
		handler:     handler,
		router:      router,
		onlyChanges: onlyChanges,
		last:        make(map[string]domain.Rating),
	}
}

// Execute implements Task. A failing symbol does not stop the others; the
// joined error reports every failure.
func (w *WatchTask) Execute(ctx context.Context) error {
	var errs []error
	for _, symbol := range w.symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.run(ctx, symbol); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

func (w *WatchTask) run(ctx context.Context, symbol string) error {
	res, err := w.handler.Handle(ctx, alert.NewWatchAlert(symbol, w.interval, time.Now()))
	if err != nil {
		return err
	}

	w.mu.Lock()
	prev, seen := w.last[res.Alert.Ticker]
	w.last[res.Alert.Ticker] = res.Signal.Rating
	w.mu.Unlock()

	if w.onlyChanges && seen && prev == res.Signal.Rating {
		logger.Debug("rating unchanged",
			logger.String("symbol", res.Alert.Ticker),
			logger.String("rating", string(prev)))
		return nil
	}

	w.router.Dispatch(ctx, res)
	return nil
}
