package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP server
	Server struct {
		Host            string        `envconfig:"HOST" default:"0.0.0.0"`
		Port            int           `envconfig:"PORT" default:"5000" validate:"min=1,max=65535"`
		Debug           bool          `envconfig:"DEBUG" default:"false"`
		WebhookSecret   string        `envconfig:"WEBHOOK_SECRET"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	}

	// Notification channels; an empty value disables the channel.
	Notify struct {
		TelegramToken  string        `envconfig:"TELEGRAM_TOKEN"`
		TelegramChatID string        `envconfig:"TELEGRAM_CHAT_ID"`
		SlackWebhook   string        `envconfig:"SLACK_WEBHOOK" validate:"omitempty,url"`
		DiscordWebhook string        `envconfig:"DISCORD_WEBHOOK" validate:"omitempty,url"`
		CallbackURL    string        `envconfig:"CALLBACK_URL" validate:"omitempty,url"`
		Timeout        time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	}

	// Market data
	Market struct {
		UseSynthetic    bool          `envconfig:"USE_SYNTHETIC" default:"false"`
		DefaultInterval string        `envconfig:"DEFAULT_INTERVAL" default:"1h"`
		CandleLimit     int           `envconfig:"CANDLE_LIMIT" default:"200" validate:"min=2,max=1000"`
		BinanceBaseURL  string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com" validate:"url"`
		Timeout         time.Duration `envconfig:"MARKET_TIMEOUT" default:"10s"`
		CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"1m"`
		RedisURL        string        `envconfig:"REDIS_URL"`
	}

	Indicators Indicators

	// IndicatorProfile is an optional YAML file that replaces Indicators.
	IndicatorProfile string `envconfig:"INDICATOR_PROFILE"`

	// Watch mode
	Watch struct {
		Symbols  []string      `envconfig:"WATCH_SYMBOLS"`
		Interval time.Duration `envconfig:"WATCH_INTERVAL" default:"15m"`
		Strategy string        `envconfig:"STRATEGY" default:"COMPOSITE"`
	}

	Log struct {
		Level       string `envconfig:"LOG_LEVEL" default:"info"`
		Environment string `envconfig:"ENVIRONMENT" default:"production"`
	}
}

// Indicators holds the indicator parameters. The default tags serve both
// envconfig and the YAML profile loader.
type Indicators struct {
	RSIPeriod             int     `envconfig:"RSI_PERIOD" yaml:"rsi_period" default:"14" validate:"min=1"`
	RSIOverbought         float64 `envconfig:"RSI_OB" yaml:"rsi_overbought" default:"70" validate:"gt=0,lte=100"`
	RSIOversold           float64 `envconfig:"RSI_OS" yaml:"rsi_oversold" default:"30" validate:"gte=0,lt=100"`
	RSIDivergenceLookback int     `envconfig:"RSI_DIV_LOOKBACK" yaml:"rsi_divergence_lookback" default:"5" validate:"min=1"`
	MACDFast              int     `envconfig:"MACD_FAST" yaml:"macd_fast" default:"12" validate:"min=1"`
	MACDSlow              int     `envconfig:"MACD_SLOW" yaml:"macd_slow" default:"26" validate:"min=2"`
	MACDSignal            int     `envconfig:"MACD_SIGNAL" yaml:"macd_signal" default:"9" validate:"min=1"`
	BBPeriod              int     `envconfig:"BB_PERIOD" yaml:"bb_period" default:"20" validate:"min=1"`
	BBStdDev              float64 `envconfig:"BB_STD" yaml:"bb_std" default:"2.0" validate:"gt=0"`
	BBSqueeze             float64 `envconfig:"BB_SQUEEZE" yaml:"bb_squeeze" default:"0.04" validate:"gte=0"`
	STPeriod              int     `envconfig:"ST_PERIOD" yaml:"st_period" default:"10" validate:"min=1"`
	STMultiplier          float64 `envconfig:"ST_MULT" yaml:"st_multiplier" default:"3.0" validate:"gt=0"`
	VWAPSessionReset      bool    `envconfig:"VWAP_SESSION_RESET" yaml:"vwap_session_reset" default:"true"`
	Parallel              bool    `envconfig:"PARALLEL_INDICATORS" yaml:"parallel" default:"false"`
}

// StrategyConfig renders the indicator section as composite strategy
// settings.
func (i Indicators) StrategyConfig() map[string]interface{} {
	return map[string]interface{}{
		"rsiPeriod":             i.RSIPeriod,
		"rsiOverbought":         i.RSIOverbought,
		"rsiOversold":           i.RSIOversold,
		"rsiDivergenceLookback": i.RSIDivergenceLookback,
		"macdFast":              i.MACDFast,
		"macdSlow":              i.MACDSlow,
		"macdSignal":            i.MACDSignal,
		"bbPeriod":              i.BBPeriod,
		"bbStdDev":              i.BBStdDev,
		"bbSqueeze":             i.BBSqueeze,
		"stPeriod":              i.STPeriod,
		"stMultiplier":          i.STMultiplier,
		"vwapSessionReset":      i.VWAPSessionReset,
		"parallel":              i.Parallel,
	}
}

var validate = validator.New()

// ValidateConfig checks field rules and cross-field constraints.
func ValidateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if cfg.Indicators.RSIOversold >= cfg.Indicators.RSIOverbought {
		return fmt.Errorf("RSI_OS must be below RSI_OB")
	}
	if cfg.Indicators.MACDSlow <= cfg.Indicators.MACDFast {
		return fmt.Errorf("MACD_SLOW must be greater than MACD_FAST")
	}
	if cfg.Watch.Interval < time.Minute {
		return fmt.Errorf("WATCH_INTERVAL must be at least 1m")
	}
	if (cfg.Notify.TelegramToken == "") != (cfg.Notify.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// LoadConfig reads .env when present, then the environment, then the
// optional indicator profile.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.IndicatorProfile != "" {
		ind, err := LoadIndicatorProfile(cfg.IndicatorProfile)
		if err != nil {
			return nil, err
		}
		cfg.Indicators = ind
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadIndicatorProfile reads indicator parameters from a YAML file. Keys
// missing from the file keep their defaults.
func LoadIndicatorProfile(path string) (Indicators, error) {
	var ind Indicators
	if err := defaults.Set(&ind); err != nil {
		return ind, fmt.Errorf("indicator defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ind, fmt.Errorf("read indicator profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &ind); err != nil {
		return ind, fmt.Errorf("parse indicator profile %s: %w", path, err)
	}
	return ind, nil
}
