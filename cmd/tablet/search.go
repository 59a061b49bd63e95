package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/tablet/pkg/core"
)

var (
	searchType string
	searchPage int
	searchSize int
)

var searchCmd = &cobra.Command{
	Use:   "search [pattern]",
	Short: "Search quotes with a % wildcard pattern",
	Long: `Search quotes by content, author, or either (the default).
"%" at the start, end, or both ends of the pattern means suffix, prefix, or substring match;
a bare pattern must match exactly and "%" alone matches everything.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := openStore(cmd)

		page, err := svc.Search(context.Background(), core.SearchQuery{
			KeywordType: searchType,
			Keyword:     args[0],
			PageNo:      searchPage,
			PageSize:    searchSize,
		})
		if err != nil {
			fatal("Error searching quotes", err)
		}

		printPage(page)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Field to match: content, author (default both)")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Page number (1-based)")
	searchCmd.Flags().IntVar(&searchSize, "size", core.DefaultPageSize, "Quotes per page")
}
