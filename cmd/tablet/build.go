package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the data.json snapshot",
	Long:  `Rebuild data.json from the current record files. Writes never refresh it on their own.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, svc := openStore(cmd)

		if err := svc.Build(context.Background()); err != nil {
			fatal("Failed to rebuild snapshot", err)
		}

		fmt.Printf("Snapshot written to %s.\n", table.SnapshotPath())
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
