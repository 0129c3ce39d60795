package discord

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/notification"
)

const footer = "SignalHub"

// Client posts embeds to a Discord webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Discord webhook client.
func NewClient(webhookURL string, opts ...ClientOption) *Client {
	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "discord" }

// Send delivers an alert as an embed.
func (c *Client) Send(ctx context.Context, a notification.Alert) error {
	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*AlertEmbed(a)}})
}

// SendError reports a failure.
func (c *Client) SendError(ctx context.Context, err error) error {
	embed := NewEmbed().
		SetTitle("Error").
		SetDescription(fmt.Sprintf("```%v```", err)).
		SetColor(domain.ColorError).
		SetFooter(footer).
		SetTimestamp(time.Now())
	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*embed}})
}

// SendInfo posts a plain informational embed.
func (c *Client) SendInfo(ctx context.Context, message string) error {
	embed := NewEmbed().
		SetDescription(message).
		SetColor(domain.ColorInfo).
		SetFooter(footer).
		SetTimestamp(time.Now())
	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*embed}})
}

func (c *Client) sendToWebhook(ctx context.Context, msg WebhookMessage) error {
	if err := notification.PostJSON(ctx, c.httpClient, c.webhookURL, msg); err != nil {
		return fmt.Errorf("discord: %w", err)
	}
	return nil
}

// AlertEmbed builds the embed for a processed alert.
func AlertEmbed(a notification.Alert) *Embed {
	sig := a.Signal
	if sig == nil {
		sig = &domain.CompositeSignal{Rating: domain.Neutral}
	}

	title := fmt.Sprintf("%s %s %s", sig.Rating.Emoji(), sig.Rating, a.Ticker)
	desc := fmt.Sprintf("**Action**: %s\n**Price**: %s\n**Score**: %+.3f",
		strings.ToUpper(a.Action), notification.FormatPrice(a.Price), sig.Score)
	if a.Exchange != "" {
		desc = fmt.Sprintf("**Exchange**: %s\n%s", a.Exchange, desc)
	}

	ts := a.ProcessedAt
	if ts.IsZero() {
		ts = sig.Timestamp
	}

	embed := NewEmbed().
		SetTitle(title).
		SetDescription(desc).
		SetRating(sig.Rating).
		AddField("RSI", sig.RSISignal, true).
		AddField("MACD", sig.MACDSignal, true).
		AddField("Bollinger", sig.BBSignal, true).
		AddField("SuperTrend", sig.STSignal, true).
		AddField("VWAP", sig.VWAPSignal, true).
		AddField("Latency", fmt.Sprintf("%dms", a.Latency.Milliseconds()), true)

	if len(sig.Components) > 0 {
		embed.AddField("Components", formatComponents(sig.Components), false)
	}
	if len(sig.RSIFrames) > 0 {
		embed.AddField("RSI frames", formatLabels(sig.RSIFrames), false)
	}

	return embed.SetFooter(footer).SetTimestamp(ts)
}

func formatComponents(c map[string]float64) string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("```\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%-5s %+.2f\n", k, c[k])
	}
	b.WriteString("```")
	return b.String()
}

func formatLabels(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "\n")
}
