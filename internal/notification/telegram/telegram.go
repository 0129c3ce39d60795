package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/assist-by/signalhub/internal/notification"
)

const defaultAPIURL = "https://api.telegram.org"

// Client sends HTML messages through the Telegram Bot API.
type Client struct {
	token      string
	chatID     string
	apiURL     string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIURL overrides the Bot API host.
func WithAPIURL(u string) ClientOption {
	return func(c *Client) {
		c.apiURL = strings.TrimRight(u, "/")
	}
}

func NewClient(token, chatID string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		chatID:     chatID,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "telegram" }

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (c *Client) Send(ctx context.Context, a notification.Alert) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req := sendMessageRequest{
		ChatID:    c.chatID,
		Text:      notification.FormatHTML(a),
		ParseMode: "HTML",
	}
	if err := notification.PostJSON(ctx, c.httpClient, url, req); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}
