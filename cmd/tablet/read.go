package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a quote",
	Long:  `Read a quote by its id. Prints "id / author / content" by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid id", err)
		}

		_, svc := openStore(cmd)

		q, err := svc.Get(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading quote: %v\n", err)
			os.Exit(1)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(q); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		printQuote(q)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
