package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assist-by/signalhub/internal/domain"
)

// Alert is a processed alert ready for delivery.
type Alert struct {
	ID          string
	Ticker      string
	Exchange    string
	Action      string
	Price       float64
	Signal      *domain.CompositeSignal
	Latency     time.Duration
	ProcessedAt time.Time
}

// Notifier delivers alerts to one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// StatusError is returned when a channel answers with an HTTP error.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notification http %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// PostJSON sends payload as a JSON POST and fails on any status >= 400.
func PostJSON(ctx context.Context, hc *http.Client, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{URL: redact(url), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}

// redact hides path secrets such as bot tokens and webhook ids.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		if j := strings.Index(url[i+3:], "/"); j >= 0 {
			return url[:i+3+j] + "/..."
		}
	}
	return url
}

// FormatHTML renders the chat message with HTML bold tags.
func FormatHTML(a Alert) string {
	return format(a, func(s string) string { return "<b>" + html.EscapeString(s) + "</b>" }, html.EscapeString)
}

// FormatMarkdown renders the chat message with Slack style bold markers.
func FormatMarkdown(a Alert) string {
	return format(a, func(s string) string { return "*" + s + "*" }, func(s string) string { return s })
}

func format(a Alert, bold, esc func(string) string) string {
	sig := a.Signal
	if sig == nil {
		sig = &domain.CompositeSignal{Rating: domain.Neutral}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", sig.Rating.Emoji(), bold("SignalHub Alert"))
	fmt.Fprintf(&b, "Ticker:  %s", bold(a.Ticker))
	if a.Exchange != "" {
		fmt.Fprintf(&b, "  (%s)", esc(a.Exchange))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Action:  %s\n", esc(strings.ToUpper(a.Action)))
	fmt.Fprintf(&b, "Price:   %s\n", FormatPrice(a.Price))
	fmt.Fprintf(&b, "Rating:  %s  (score %+.3f)\n", bold(string(sig.Rating)), sig.Score)
	fmt.Fprintf(&b, "RSI:     %s\n", esc(sig.RSISignal))
	fmt.Fprintf(&b, "MACD:    %s\n", esc(sig.MACDSignal))
	fmt.Fprintf(&b, "ST:      %s\n", esc(sig.STSignal))
	fmt.Fprintf(&b, "Latency: %dms", a.Latency.Milliseconds())
	return b.String()
}

// FormatPrice prints four decimals with thousands separators.
func FormatPrice(p float64) string {
	s := decimal.NewFromFloat(p).StringFixed(4)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var out strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	return sign + out.String() + "." + frac
}
