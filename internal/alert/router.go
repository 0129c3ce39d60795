package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/metrics"
	"github.com/assist-by/signalhub/internal/notification"
)

// logChannel is always registered.
type logChannel struct{}

func (logChannel) Name() string { return "log" }

func (logChannel) Send(_ context.Context, a notification.Alert) error {
	if a.Signal == nil {
		logger.Info("alert result", logger.String("ticker", a.Ticker))
		return nil
	}
	logger.Info("alert result",
		logger.String("ticker", a.Ticker),
		logger.String("rating", string(a.Signal.Rating)),
		logger.Float64("score", a.Signal.Score))
	return nil
}

// Router delivers results to every registered channel in order.
type Router struct {
	channels []notification.Notifier
	timeout  time.Duration
}

// NewRouter creates a router with only the log channel. Each channel send
// is bounded by timeout when it is positive.
func NewRouter(timeout time.Duration) *Router {
	return &Router{
		channels: []notification.Notifier{logChannel{}},
		timeout:  timeout,
	}
}

// Add registers a channel.
func (r *Router) Add(n notification.Notifier) {
	r.channels = append(r.channels, n)
	logger.Info("notification channel registered", logger.String("channel", n.Name()))
}

// Channels lists channel names in dispatch order.
func (r *Router) Channels() []string {
	names := make([]string, len(r.channels))
	for i, ch := range r.channels {
		names[i] = ch.Name()
	}
	return names
}

// Dispatch sends res to all channels. Channel failures are logged and
// counted; they never stop the remaining channels. It returns the number
// of failed channels.
func (r *Router) Dispatch(ctx context.Context, res *Result) int {
	msg := res.Notification()

	failed := 0
	for _, ch := range r.channels {
		if err := r.send(ctx, ch, msg); err != nil {
			failed++
			metrics.NotificationsSent.WithLabelValues(ch.Name(), metrics.ResultError).Inc()
			logger.Error("channel dispatch error",
				logger.String("channel", ch.Name()),
				logger.String("ticker", msg.Ticker),
				logger.ErrorField(err))
			continue
		}
		metrics.NotificationsSent.WithLabelValues(ch.Name(), metrics.ResultOK).Inc()
	}
	return failed
}

func (r *Router) send(ctx context.Context, ch notification.Notifier, msg notification.Alert) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("channel panicked: %v", p)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return ch.Send(ctx, msg)
}
