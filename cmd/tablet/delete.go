package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a quote",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid id", err)
		}

		_, svc := openStore(cmd)

		if err := svc.Remove(context.Background(), id); err != nil {
			fmt.Printf("Error deleting quote: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Quote %d deleted.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
