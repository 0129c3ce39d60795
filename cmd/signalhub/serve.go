package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/assist-by/signalhub/internal/logger"
	"github.com/assist-by/signalhub/internal/server"
)

type serveOptions struct {
	host  string
	port  int
	debug bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "Bind host (default from HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Server port (default from PORT)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd
}

func runServe(parent context.Context, root *rootOptions, opts serveOptions) error {
	cfg := root.cfg
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if opts.debug || cfg.Server.Debug {
		if err := logger.Init("debug", cfg.Log.Environment); err != nil {
			return err
		}
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Options{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		WebhookSecret:   cfg.Server.WebhookSecret,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, a.handler, a.router)

	fmt.Printf(`
  signalhub

  Webhook:  http://%[1]s/webhook
  Health:   http://%[1]s/health
  Signal:   http://%[1]s/signal/<ticker>
  Metrics:  http://%[1]s/metrics

`, srv.Addr())

	return srv.Run(ctx)
}
