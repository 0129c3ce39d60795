package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/assist-by/signalhub/internal/domain"
)

func newSignalCmd(root *rootOptions) *cobra.Command {
	var (
		interval string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "signal <ticker>",
		Short: "Print the composite signal for a ticker",
		Example: `  signalhub signal AAPL
  signalhub signal BTCUSDT --interval 4h --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if interval == "" {
				interval = cfg.Market.DefaultInterval
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ticker := strings.ToUpper(args[0])
			sig, err := a.handler.Signal(ctx, ticker, domain.ParseInterval(interval))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sig)
			}
			printSignal(cmd.OutOrStdout(), ticker, interval, sig)
			return nil
		},
	}
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Timeframe (default from DEFAULT_INTERVAL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printSignal(w io.Writer, ticker, interval string, sig *domain.CompositeSignal) {
	rule := strings.Repeat("─", 30)
	fmt.Fprintf(w, "\n  Ticker:     %s\n", ticker)
	fmt.Fprintf(w, "  Interval:   %s\n", interval)
	fmt.Fprintf(w, "  %s\n", rule)
	fmt.Fprintf(w, "  Rating:     %s %s\n", sig.Rating.Emoji(), sig.Rating)
	fmt.Fprintf(w, "  Score:      %+.4f\n", sig.Score)
	fmt.Fprintf(w, "  %s\n", rule)
	fmt.Fprintf(w, "  RSI:        %s\n", sig.RSISignal)
	fmt.Fprintf(w, "  MACD:       %s\n", sig.MACDSignal)
	fmt.Fprintf(w, "  BB:         %s\n", sig.BBSignal)
	fmt.Fprintf(w, "  SuperTrend: %s\n", sig.STSignal)
	fmt.Fprintf(w, "  VWAP:       %s\n", sig.VWAPSignal)

	if len(sig.RSIFrames) > 0 {
		frames := make([]string, 0, len(sig.RSIFrames))
		for name := range sig.RSIFrames {
			frames = append(frames, name)
		}
		sort.Strings(frames)
		fmt.Fprintf(w, "  %s\n", rule)
		for _, name := range frames {
			fmt.Fprintf(w, "  RSI %-7s %s\n", name+":", sig.RSIFrames[name])
		}
	}
	for name, msg := range sig.Errors {
		fmt.Fprintf(w, "  ! %s: %s\n", name, msg)
	}
	fmt.Fprintln(w)
}
