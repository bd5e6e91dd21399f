package main

import (
	"context"
	"fmt"

	"github.com/aretw0/weir/internal/presentation/graph"
	fileAdapter "github.com/aretw0/weir/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the topology as a Mermaid flowchart",
	Long:  `Loads the topology file and prints Mermaid flowchart syntax to stdout, suitable for pasting into documentation or a live editor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _ := cmd.Flags().GetString("flow")

		store := fileAdapter.New(flow)
		schema, err := store.LoadSchema(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}

		fmt.Print(graph.GenerateMermaid(schema))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
