// Package webhook forwards processed alerts as JSON to a user supplied
// callback URL.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/notification"
)

// Payload is the callback body.
type Payload struct {
	ID          string                  `json:"id"`
	Ticker      string                  `json:"ticker"`
	Exchange    string                  `json:"exchange,omitempty"`
	Action      string                  `json:"action"`
	Price       float64                 `json:"price"`
	Rating      domain.Rating           `json:"rating"`
	Score       float64                 `json:"score"`
	LatencyMs   float64                 `json:"latency_ms"`
	ProcessedAt time.Time               `json:"processed_at"`
	Signal      *domain.CompositeSignal `json:"signal,omitempty"`
}

// NewPayload flattens an alert into the callback body.
func NewPayload(a notification.Alert) Payload {
	p := Payload{
		ID:          a.ID,
		Ticker:      a.Ticker,
		Exchange:    a.Exchange,
		Action:      a.Action,
		Price:       a.Price,
		LatencyMs:   float64(a.Latency.Microseconds()) / 1000,
		ProcessedAt: a.ProcessedAt,
		Signal:      a.Signal,
	}
	if a.Signal != nil {
		p.Rating = a.Signal.Rating
		p.Score = a.Signal.Score
	}
	return p
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Name() string { return "callback" }

func (c *Client) Send(ctx context.Context, a notification.Alert) error {
	if err := notification.PostJSON(ctx, c.httpClient, c.url, NewPayload(a)); err != nil {
		return fmt.Errorf("callback: %w", err)
	}
	return nil
}
