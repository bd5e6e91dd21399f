package main

import (
	"context"
	"fmt"

	"github.com/aretw0/weir"
	fileAdapter "github.com/aretw0/weir/pkg/adapters/file"
	"github.com/aretw0/weir/pkg/graph"
	nodeSchema "github.com/aretw0/weir/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a topology file without running it",
	Long:  `Loads the topology file and reports dangling edges, unknown node types, and cyclic configurations that would leave the graph inert.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _ := cmd.Flags().GetString("flow")

		store := fileAdapter.New(flow)
		schema, err := store.LoadSchema(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}

		rt, err := weir.New()
		if err != nil {
			return err
		}
		defer rt.Close()

		problems := 0

		for _, n := range schema.Nodes {
			manifest, ok := rt.Registry.Manifest(n.Type)
			if !ok {
				fmt.Printf("unknown node type %q (node %s)\n", n.Type, n.ID)
				problems++
				continue
			}
			if len(n.Settings) == 0 {
				continue
			}
			types, err := nodeSchema.ParseTypeMap(manifest.SettingsSchema)
			if err != nil {
				fmt.Printf("bad settings schema for type %q: %v\n", n.Type, err)
				problems++
				continue
			}
			if err := nodeSchema.Validate(types, n.Settings); err != nil {
				fmt.Printf("node %s: %v\n", n.ID, err)
				problems++
			}
		}

		model := graph.NewModel()
		model.Load(schema)

		for _, e := range model.DanglingEdges() {
			fmt.Printf("dangling edge %s: %s -> %s\n", e.ID, e.SourceNode, e.TargetNode)
			problems++
		}

		if len(schema.Nodes) > 0 && len(model.RootNodes()) == 0 {
			fmt.Println("no entry nodes: every node is an edge target (cyclic configuration?)")
			problems++
		}

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found in %s", problems, flow)
		}
		fmt.Printf("%s: %d nodes, %d edges, ok\n", flow, len(schema.Nodes), len(schema.Edges))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
