package market

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/assist-by/signalhub/internal/domain"
)

// Provider returns OHLCV bars for a symbol, oldest first.
type Provider interface {
	GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error)
}

// APIError is a non-200 answer from the exchange.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("binance api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("binance http error (status %d): %s", e.StatusCode, e.Message)
}

// ErrNoData is returned when a provider answers with zero bars.
var ErrNoData = errors.New("no market data")

// IsRetryableError reports whether a failed request is worth repeating:
// network failures, rate limits and server-side errors.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusTeapot ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
