// Package alert turns TradingView webhook payloads into composite signals
// and fans the results out to notification channels.
package alert

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultAction   = "custom"
	DefaultInterval = "unknown"
)

// reserved keys are lifted into ParsedAlert fields; everything else lands
// in Extra.
var reserved = map[string]bool{
	"ticker":   true,
	"exchange": true,
	"action":   true,
	"price":    true,
	"interval": true,
}

// ParsedAlert is a decoded TradingView alert.
type ParsedAlert struct {
	ID        string                 `json:"id"`
	Raw       map[string]interface{} `json:"-"`
	Ticker    string                 `json:"ticker" validate:"required,max=40"`
	Exchange  string                 `json:"exchange,omitempty" validate:"max=40"`
	Action    string                 `json:"action" validate:"required,max=40"`
	Price     float64                `json:"price" validate:"gte=0"`
	Interval  string                 `json:"interval"`
	Timestamp time.Time              `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
	Valid     bool                   `json:"valid"`
	Error     string                 `json:"error,omitempty"`
}

// Parser decodes and validates alert bodies.
type Parser struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewParser() *Parser {
	return &Parser{
		validate: validator.New(),
		now:      time.Now,
	}
}

// Parse never fails; problems are reported through Valid and Error.
func (p *Parser) Parse(body []byte) *ParsedAlert {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return p.invalid(fmt.Sprintf("invalid JSON: %v", err), nil)
	}
	if data == nil {
		return p.invalid("alert body must be a JSON object", nil)
	}

	var missing []string
	for _, key := range []string{"price", "ticker"} {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return p.invalid("missing required fields: "+strings.Join(missing, ", "), data)
	}

	price, err := parsePrice(data["price"])
	if err != nil {
		return p.invalid(err.Error(), data)
	}

	a := &ParsedAlert{
		ID:        uuid.NewString(),
		Raw:       data,
		Ticker:    strings.ToUpper(strings.TrimSpace(stringField(data, "ticker", ""))),
		Exchange:  strings.ToUpper(strings.TrimSpace(stringField(data, "exchange", ""))),
		Action:    strings.ToLower(strings.TrimSpace(stringField(data, "action", DefaultAction))),
		Price:     price,
		Interval:  strings.TrimSpace(stringField(data, "interval", DefaultInterval)),
		Timestamp: p.now().UTC(),
		Extra:     make(map[string]interface{}),
		Valid:     true,
	}
	for k, v := range data {
		if !reserved[k] {
			a.Extra[k] = v
		}
	}

	if err := p.validate.Struct(a); err != nil {
		return p.invalid(describe(err), data)
	}
	return a
}

func (p *Parser) invalid(msg string, raw map[string]interface{}) *ParsedAlert {
	return &ParsedAlert{
		Raw:       raw,
		Timestamp: p.now().UTC(),
		Valid:     false,
		Error:     msg,
	}
}

// parsePrice accepts a JSON number or a numeric string.
func parsePrice(v interface{}) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("price %q is not a number", x)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("price must be a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("price must be finite")
	}
	return f, nil
}

// stringField renders scalar values as text; null and missing keys use def.
func stringField(data map[string]interface{}, key, def string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return strings.Join(msgs, "; ")
}
