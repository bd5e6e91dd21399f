package main

import (
	"fmt"

	"github.com/aretw0/weir"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of weir",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("weir version %s\n", weir.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
