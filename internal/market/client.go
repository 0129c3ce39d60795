package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/assist-by/signalhub/internal/domain"
)

const (
	defaultBaseURL = "https://api.binance.com"
	maxKlineLimit  = 1000
)

// Client reads public market data from the Binance spot REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a market data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"msg"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}

	return body, nil
}

// GetServerTime returns the exchange clock.
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	resp, err := c.doRequest(ctx, "/api/v3/time", url.Values{})
	if err != nil {
		return time.Time{}, err
	}

	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return time.Time{}, fmt.Errorf("parse server time: %w", err)
	}
	return time.UnixMilli(result.ServerTime), nil
}

// GetKlines fetches the most recent closed and open bars for symbol.
func (c *Client) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	if limit <= 0 || limit > maxKlineLimit {
		limit = maxKlineLimit
	}

	params := url.Values{}
	params.Add("symbol", strings.ToUpper(symbol))
	params.Add("interval", string(interval))
	params.Add("limit", strconv.Itoa(limit))

	resp, err := c.doRequest(ctx, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}

	var rawCandles [][]interface{}
	if err := json.Unmarshal(resp, &rawCandles); err != nil {
		return nil, fmt.Errorf("parse klines: %w", err)
	}
	if len(rawCandles) == 0 {
		return nil, fmt.Errorf("%s %s: %w", symbol, interval, ErrNoData)
	}

	candles := make(domain.CandleList, 0, len(rawCandles))
	for i, raw := range rawCandles {
		candle, err := parseKline(raw)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		candle.Symbol = strings.ToUpper(symbol)
		candle.Interval = interval
		candles = append(candles, candle)
	}
	return candles, nil
}

// parseKline decodes one row of [openTime, "open", "high", "low", "close",
// "volume", closeTime, ...].
func parseKline(raw []interface{}) (domain.Candle, error) {
	if len(raw) < 7 {
		return domain.Candle{}, fmt.Errorf("short row: %d fields", len(raw))
	}

	openTime, ok := raw[0].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("open time is %T", raw[0])
	}
	closeTime, ok := raw[6].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("close time is %T", raw[6])
	}

	var prices [5]float64
	for j := range prices {
		s, ok := raw[j+1].(string)
		if !ok {
			return domain.Candle{}, fmt.Errorf("field %d is %T", j+1, raw[j+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("field %d: %w", j+1, err)
		}
		prices[j] = v
	}

	return domain.Candle{
		OpenTime:  time.UnixMilli(int64(openTime)).UTC(),
		CloseTime: time.UnixMilli(int64(closeTime)).UTC(),
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
	}, nil
}
