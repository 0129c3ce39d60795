package main

import (
	"context"
	"fmt"
	"time"

	"github.com/assist-by/signalhub/internal/alert"
	"github.com/assist-by/signalhub/internal/config"
	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/market"
	"github.com/assist-by/signalhub/internal/notification/discord"
	"github.com/assist-by/signalhub/internal/notification/slack"
	"github.com/assist-by/signalhub/internal/notification/telegram"
	"github.com/assist-by/signalhub/internal/notification/webhook"
	"github.com/assist-by/signalhub/internal/strategy"
	"github.com/assist-by/signalhub/internal/strategy/composite"
)

// app holds the shared pipeline used by every command.
type app struct {
	handler *alert.Handler
	router  *alert.Router
	discord *discord.Client
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	client := market.NewClient(
		market.WithBaseURL(cfg.Market.BinanceBaseURL),
		market.WithTimeout(cfg.Market.Timeout),
	)
	fetcher := market.NewFetcher(client,
		market.WithCache(a.newCache(ctx, cfg), cfg.Market.CacheTTL),
		market.WithSyntheticOnly(cfg.Market.UseSynthetic),
	)

	registry := strategy.NewRegistry()
	composite.RegisterStrategy(registry)
	strat, err := strategy.CreateOrDefault(registry, cfg.Watch.Strategy, cfg.Indicators.StrategyConfig())
	if err != nil {
		return nil, err
	}
	logger.Info("strategy ready",
		logger.String("name", strat.GetName()),
		logger.Bool("synthetic", cfg.Market.UseSynthetic))

	a.handler = alert.NewHandler(fetcher, strat, alert.WithCandleLimit(cfg.Market.CandleLimit))
	a.router = alert.NewRouter(cfg.Notify.Timeout)

	n := cfg.Notify
	if n.TelegramToken != "" && n.TelegramChatID != "" {
		a.router.Add(telegram.NewClient(n.TelegramToken, n.TelegramChatID, telegram.WithTimeout(n.Timeout)))
	}
	if n.SlackWebhook != "" {
		a.router.Add(slack.NewClient(n.SlackWebhook, n.Timeout))
	}
	if n.DiscordWebhook != "" {
		a.discord = discord.NewClient(n.DiscordWebhook, discord.WithTimeout(n.Timeout))
		a.router.Add(a.discord)
	}
	if n.CallbackURL != "" {
		a.router.Add(webhook.NewClient(n.CallbackURL, n.Timeout))
	}

	return a, nil
}

// newCache prefers Redis and falls back to memory when Redis is absent or
// unreachable.
func (a *app) newCache(ctx context.Context, cfg *config.Config) market.Cache {
	if cfg.Market.RedisURL == "" {
		return market.NewMemoryCache()
	}

	rc, err := market.NewRedisCache(cfg.Market.RedisURL)
	if err != nil {
		logger.Warn("redis cache disabled", logger.ErrorField(err))
		return market.NewMemoryCache()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, using memory cache", logger.ErrorField(err))
		_ = rc.Close()
		return market.NewMemoryCache()
	}

	a.closers = append(a.closers, rc.Close)
	logger.Info("redis candle cache enabled")
	return rc
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Warn("close failed", logger.ErrorField(err))
		}
	}
}

func (a *app) notifyInfo(ctx context.Context, msg string) {
	if a.discord == nil {
		return
	}
	if err := a.discord.SendInfo(ctx, msg); err != nil {
		logger.Warn("discord info failed", logger.ErrorField(err))
	}
}

func (a *app) notifyError(ctx context.Context, err error) {
	if a.discord == nil || err == nil {
		return
	}
	if sendErr := a.discord.SendError(ctx, err); sendErr != nil {
		logger.Warn("discord error report failed", logger.ErrorField(sendErr))
	}
}

func requireSymbols(cfg *config.Config) error {
	if len(cfg.Watch.Symbols) == 0 {
		return fmt.Errorf("WATCH_SYMBOLS is empty")
	}
	return nil
}
