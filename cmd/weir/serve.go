package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/weir"
	"github.com/aretw0/weir/internal/logging"
	httpAdapter "github.com/aretw0/weir/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the graph and expose the tooling API over HTTP",
	Long:  `Starts the engine and serves the settings RPCs, graph inspection, trigger ingestion and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		level, _ := cmd.Flags().GetString("log-level")

		cfg, err := loadServerConfig(configPath)
		if err != nil {
			return err
		}
		if flow, _ := cmd.Flags().GetString("flow"); cmd.Flags().Changed("flow") {
			cfg.Flow = flow
		}

		logger := logging.New(parseLevel(level))

		opts := []weir.Option{
			weir.WithLogger(logger),
			weir.WithTopologyFile(cfg.Flow),
		}
		if cfg.RedisAddr != "" {
			opts = append(opts, weir.WithRedisBroker(cfg.RedisAddr))
		}
		if cfg.Metrics {
			opts = append(opts, weir.WithMetrics())
		}

		rt, err := weir.New(opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize runtime: %w", err)
		}
		defer rt.Close()

		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if g := rt.Gatherer(); g != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(g))
		}

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: httpAdapter.NewHandler(rt.Engine, rt.Triggers, handlerOpts...),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "flow", cfg.Flow)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				_ = srv.Close()
			}
			return rt.Engine.Stop(context.Background())
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "weir.yaml", "Server configuration file")
}
