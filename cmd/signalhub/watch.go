package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/assist-by/signalhub/internal/domain"
	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/scheduler"
)

// reportingTask forwards watch failures to Discord.
type reportingTask struct {
	task scheduler.Task
	app  *app
}

func (t *reportingTask) Execute(ctx context.Context) error {
	err := t.task.Execute(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.app.notifyError(ctx, err)
	}
	return err
}

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		once        bool
		onlyChanges bool
		interval    string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically rate WATCH_SYMBOLS and dispatch the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if err := requireSymbols(cfg); err != nil {
				return err
			}
			if interval == "" {
				interval = cfg.Market.DefaultInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			watch := scheduler.NewWatchTask(cfg.Watch.Symbols, domain.ParseInterval(interval), a.handler, a.router, onlyChanges)
			sched := scheduler.NewScheduler(cfg.Watch.Interval, &reportingTask{task: watch, app: a})

			logger.Info("watch started",
				logger.String("symbols", strings.Join(cfg.Watch.Symbols, ",")),
				logger.Duration("every", cfg.Watch.Interval))
			a.notifyInfo(ctx, fmt.Sprintf("Watching %s every %s", strings.Join(cfg.Watch.Symbols, ", "), cfg.Watch.Interval))

			sched.RunNow(ctx)
			if once {
				return nil
			}

			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("watch stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")
	cmd.Flags().BoolVar(&onlyChanges, "changes-only", true, "Notify only when a symbol's rating changes")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Candle timeframe (default from DEFAULT_INTERVAL)")
	return cmd
}
