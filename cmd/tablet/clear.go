package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	clearDrop bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every quote",
	Long: `Remove every record and the snapshot. Ids keep increasing afterwards.
With --drop the identity counter is removed too and the next quote gets id 1.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, svc := openStore(cmd)
		ctx := context.Background()

		if clearDrop {
			if err := table.Drop(ctx); err != nil {
				fatal("Failed to drop table", err)
			}
			fmt.Println("Table dropped.")
			return
		}

		if err := svc.Clear(ctx); err != nil {
			fatal("Failed to clear table", err)
		}
		fmt.Println("Table cleared.")
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearDrop, "drop", false, "Also reset the identity counter")
}
