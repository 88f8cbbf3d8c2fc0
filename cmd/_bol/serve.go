package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashwch/bol/internal/app"
	"github.com/ashwch/bol/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr      string
		locale    string
		logLevel  string
		noJournal bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP and WebSocket",
		Long: `Serve POST /v1/resolve, the /ws/voice socket, /v1/routes, /healthz and
/metrics. Settings come from config.toml, .env and BOL_* variables; flags
override them for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Load(app.Overrides{Locale: locale})
			if err != nil {
				return err
			}
			if addr == "" {
				addr = env.Config.Server.Addr
			}
			if logLevel == "" {
				logLevel = env.Config.Server.LogLevel
			}

			logger, err := server.NewLogger(logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts := server.Options{
				Resolver:       env.Resolver,
				AllowedOrigins: env.Config.Server.AllowedOrigins,
				Logger:         logger,
				Registry:       newRegistry(),
				Version:        version,
			}
			if !noJournal {
				stores, err := env.Stores()
				if err != nil {
					return err
				}
				if stores.Enabled() {
					opts.Recorder = stores
				}
			}
			srv := server.New(opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("forced shutdown", zap.Error(err))
				return err
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().StringVar(&locale, "locale", "", "feedback locale: auto|en|hi|mr")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default server.log_level)")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record resolutions")
	return cmd
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}
