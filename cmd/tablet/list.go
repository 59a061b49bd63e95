package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tablet/pkg/core"
)

var (
	listJSON bool
	listPage int
	listSize int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List quotes, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := openStore(cmd)

		page, err := svc.List(context.Background(), listPage, listSize)
		if err != nil {
			fatal("Error listing quotes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(page); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		printPage(page)
	},
}

func printPage(page core.Page[*core.Quote]) {
	fmt.Println("id / author / content")
	fmt.Println("----------------------")
	for _, q := range page.Items {
		printQuote(q)
	}
	fmt.Printf("page %d of %d (%d quotes)\n", page.PageNo, page.TotalPages(), page.TotalCount)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number (1-based)")
	listCmd.Flags().IntVar(&listSize, "size", core.DefaultPageSize, "Quotes per page")
}
