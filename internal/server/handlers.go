package server

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
)

const maxAlertBody = 1 << 20

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

type webhookResponse struct {
	Status    string        `json:"status"`
	ID        string        `json:"id"`
	Ticker    string        `json:"ticker"`
	Rating    domain.Rating `json:"rating"`
	Score     float64       `json:"score"`
	LatencyMs float64       `json:"latency_ms"`
}

type signalResponse struct {
	Ticker string `json:"ticker"`
	*domain.CompositeSignal
}

// Health handles GET / and GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: ServiceName,
		Time:    s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// Webhook handles POST /webhook and POST /alert.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	if s.opts.WebhookSecret != "" {
		provided := r.Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.opts.WebhookSecret)) != 1 {
			logger.Warn("unauthorized webhook call", logger.String("remote_addr", r.RemoteAddr))
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAlertBody))
	if err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	logger.Debug("incoming alert body", logger.String("body", truncate(string(body), 500)))

	a := s.parser.Parse(body)
	if !a.Valid {
		respondWithError(w, http.StatusBadRequest, a.Error)
		return
	}

	res, err := s.handler.Handle(r.Context(), a)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	s.router.Dispatch(r.Context(), res)

	respondWithJSON(w, http.StatusOK, webhookResponse{
		Status:    "ok",
		ID:        a.ID,
		Ticker:    a.Ticker,
		Rating:    res.Signal.Rating,
		Score:     res.Signal.Score,
		LatencyMs: float64(res.Latency.Microseconds()) / 1000,
	})
}

// Signal handles GET /signal/{ticker}?interval=1h.
func (s *Server) Signal(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	interval := domain.ParseInterval(r.URL.Query().Get("interval"))

	sig, err := s.handler.Signal(r.Context(), ticker, interval)
	if err != nil {
		logger.Error("signal query failed", logger.String("ticker", ticker), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, signalResponse{Ticker: ticker, CompositeSignal: sig})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response", logger.ErrorField(err))
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
