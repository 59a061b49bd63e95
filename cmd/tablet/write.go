package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	writeContent string
	writeAuthor  string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a new quote",
	Long:  `Store a new quote and print the id it was given. Content and author must not contain '"', ',' or ':'.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := openStore(cmd)

		q, err := svc.Write(context.Background(), writeContent, writeAuthor)
		if err != nil {
			fatal("Failed to write quote", err)
		}

		fmt.Printf("Quote %d saved.\n", q.ID)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeContent, "content", "", "Quote text")
	writeCmd.Flags().StringVar(&writeAuthor, "author", "", "Quote author")
	writeCmd.MarkFlagRequired("content")
	writeCmd.MarkFlagRequired("author")
}
