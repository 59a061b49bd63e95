package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/tablet/pkg/adapters/lifecycle"
	"github.com/aretw0/tablet/pkg/core"
)

var (
	watchTypes []string
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print record changes until interrupted",
	Long:  `Watch the table directory and print CREATE, MODIFY and DELETE events for record files matching the glob pattern (default all).`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		table, svc := openStore(cmd)

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		types := make([]core.EventType, 0, len(watchTypes))
		for _, t := range watchTypes {
			types = append(types, core.EventType(strings.ToUpper(t)))
		}

		source := lifecycle.NewSource(events, types...)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		slog.Info("watching", "dir", table.Dir, "pattern", pattern)
		for e := range source.Events() {
			fmt.Println(e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVarP(&watchTypes, "type", "t", nil, "Only print these event types (create, modify, delete)")
}
