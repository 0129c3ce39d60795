package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/notification"
)

func testAlert() notification.Alert {
	return notification.Alert{
		Ticker: "ETHUSDT",
		Action: "sell",
		Price:  2500,
		Signal: &domain.CompositeSignal{
			Score:      -0.65,
			Rating:     domain.StrongSell,
			RSISignal:  "overbought",
			MACDSignal: "bearish_cross",
			BBSignal:   "upper_break",
			STSignal:   "sell_signal",
			VWAPSignal: "n/a",
			Components: map[string]float64{"rsi": -1, "macd": -1, "bb": -1, "st": -1, "vwap": 0},
			RSIFrames:  map[string]string{"1h": "overbought", "4h": "neutral"},
		},
		Latency:     15 * time.Millisecond,
		ProcessedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAlertEmbed(t *testing.T) {
	e := AlertEmbed(testAlert())
	assert.Equal(t, "🔴 STRONG SELL ETHUSDT", e.Title)
	assert.Equal(t, domain.ColorError, e.Color)
	assert.Contains(t, e.Description, "**Action**: SELL")
	assert.Contains(t, e.Description, "**Price**: 2,500.0000")
	assert.Contains(t, e.Description, "**Score**: -0.650")
	assert.Equal(t, "2024-03-01T12:00:00Z", e.Timestamp)

	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"RSI", "MACD", "Bollinger", "SuperTrend", "VWAP", "Latency", "Components", "RSI frames"}, names)
	assert.Equal(t, "1h: overbought\n4h: neutral", e.Fields[7].Value)
}

func TestAlertEmbedWithoutSignal(t *testing.T) {
	e := AlertEmbed(notification.Alert{Ticker: "X"})
	assert.Equal(t, domain.ColorInfo, e.Color)
	for _, f := range e.Fields {
		assert.NotEmpty(t, f.Value, f.Name)
	}
}

func TestClientSend(t *testing.T) {
	var msg WebhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(time.Second))
	assert.Equal(t, "discord", c.Name())
	require.NoError(t, c.Send(context.Background(), testAlert()))
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "🔴 STRONG SELL ETHUSDT", msg.Embeds[0].Title)

	require.NoError(t, c.SendInfo(context.Background(), "watch started"))
	assert.Equal(t, "watch started", msg.Embeds[0].Description)

	require.NoError(t, c.SendError(context.Background(), errors.New("fetch failed")))
	assert.Equal(t, domain.ColorError, msg.Embeds[0].Color)
}

func TestClientSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Send(context.Background(), testAlert())
	var se *notification.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}
