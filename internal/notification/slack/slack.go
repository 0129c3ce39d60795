package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/assist-by/signalhub/internal/notification"
)

// Client posts to a Slack incoming webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "slack" }

func (c *Client) Send(ctx context.Context, a notification.Alert) error {
	payload := map[string]string{"text": notification.FormatMarkdown(a)}
	if err := notification.PostJSON(ctx, c.httpClient, c.webhookURL, payload); err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	return nil
}
