package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the table and service state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, svc := openStore(cmd)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		err := encoder.Encode(map[string]any{
			table.ComponentType(): table.State(),
			svc.ComponentType():   svc.State(),
		})
		if err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
