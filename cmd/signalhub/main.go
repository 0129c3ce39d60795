package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/assist-by/signalhub/internal/config"
	"github.com/assist-by/signalhub/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	demo     bool
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "signalhub",
		Short: "TradingView webhook server and composite indicator engine",
		Long: `signalhub rates symbols by blending RSI, MACD, Bollinger Bands,
SuperTrend and VWAP into a single score, and forwards TradingView alerts
enriched with that rating to Telegram, Slack, Discord or a custom callback.`,
		Example: `  signalhub                       # start the webhook server
  signalhub signal AAPL
  signalhub signal BTCUSDT --interval 4h
  signalhub --demo                # synthetic data only
  signalhub serve --port 8080`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, serveOptions{})
		},
	}

	root.PersistentFlags().BoolVar(&opts.demo, "demo", false, "Use synthetic demo data")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (default from LOG_LEVEL)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSignalCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	return root
}

func (o *rootOptions) load() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.demo {
		cfg.Market.UseSynthetic = true
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Environment); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	o.cfg = cfg
	return nil
}
