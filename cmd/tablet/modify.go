package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	modifyContent string
	modifyAuthor  string
)

var modifyCmd = &cobra.Command{
	Use:   "modify [id]",
	Short: "Replace the content and author of a quote",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid id", err)
		}

		_, svc := openStore(cmd)

		if _, err := svc.Modify(context.Background(), id, modifyContent, modifyAuthor); err != nil {
			fatal("Failed to modify quote", err)
		}

		fmt.Printf("Quote %d modified.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(modifyCmd)
	modifyCmd.Flags().StringVar(&modifyContent, "content", "", "New quote text")
	modifyCmd.Flags().StringVar(&modifyAuthor, "author", "", "New quote author")
	modifyCmd.MarkFlagRequired("content")
	modifyCmd.MarkFlagRequired("author")
}
