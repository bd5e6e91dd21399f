package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/weir"
	"github.com/aretw0/weir/internal/logging"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the graph from the topology file",
	Long:  `Loads the topology file, fires every entry node, and keeps the process alive for timer and trigger nodes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _ := cmd.Flags().GetString("flow")
		level, _ := cmd.Flags().GetString("log-level")
		redisAddr, _ := cmd.Flags().GetString("redis")

		logger := logging.New(parseLevel(level))

		opts := []weir.Option{
			weir.WithLogger(logger),
			weir.WithTopologyFile(flow),
		}
		if redisAddr != "" {
			opts = append(opts, weir.WithRedisBroker(redisAddr))
		}

		rt, err := weir.New(opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize runtime: %w", err)
		}
		defer rt.Close()

		ctx := context.Background()
		if !rt.Engine.Running() {
			if err := rt.Engine.Run(ctx); err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
		}

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown

		logger.Info("shutting down", "signal", sig.String())
		return rt.Engine.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("redis", "", "Redis address for the distributed trigger bus (in-process bus if empty)")
}
