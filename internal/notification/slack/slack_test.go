package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/signalhub/internal/notification"
)

func TestClientSend(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	assert.Equal(t, "slack", c.Name())

	a := notification.Alert{Ticker: "SPY", Action: "close"}
	require.NoError(t, c.Send(context.Background(), a))
	assert.Equal(t, notification.FormatMarkdown(a), body["text"])
}

func TestClientSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	assert.Error(t, NewClient(srv.URL, 0).Send(context.Background(), notification.Alert{}))
}
