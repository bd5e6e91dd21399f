package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weir",
	Short: "Weir is a dataflow graph execution runtime",
	Long:  `Weir loads a declarative graph of typed processing nodes and executes it, firing entry nodes on run and trigger nodes on external events.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("flow", "f", ".weir/flow.json", "Topology file to load and persist")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
