package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tablet"
	"github.com/aretw0/tablet/pkg/core"
)

var (
	verbose     bool
	baseDir     string
	configPath  string
	tableName   string
	processLock bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tablet",
	Short: "A flat-file record store for quotes",
	Long: `Tablet keeps every quote in its own small text file under <dir>/<table>/<id>.json.
Ids come from a persistent counter and data.json is rebuilt on demand with "tablet build".`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal("Failed to load config", err)
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "dir", "d", "", "Base directory (default from tablet.yaml or ./db)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest tablet.yaml)")
	rootCmd.PersistentFlags().StringVar(&tableName, "table", "", "Entity type directory (default quotes)")
	rootCmd.PersistentFlags().BoolVar(&processLock, "process-lock", false, "Guard writes with a lock file shared between processes")
}

// loadConfig resolves the configuration: an explicit --config, else the
// nearest tablet.yaml, else defaults. Flags override file values.
func loadConfig(cmd *cobra.Command) (*tablet.Config, error) {
	cfg := tablet.DefaultConfig()

	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, err := tablet.FindConfig(wd); err == nil {
				path = found
			}
		}
	}
	if path != "" {
		loaded, err := tablet.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.BaseDir = baseDir
	}
	if flags.Changed("table") {
		cfg.Table = tableName
	}
	if flags.Changed("process-lock") {
		cfg.ProcessLock = processLock
	}
	return cfg, nil
}

// openStore builds the table and the service over it.
func openStore(cmd *cobra.Command) (*tablet.QuoteTable, *core.QuoteService) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Failed to load config", err)
	}

	opts := append(cfg.Options(), tablet.WithLogger(slog.Default()))
	table, err := tablet.OpenTable(cfg.BaseDir, opts...)
	if err != nil {
		fatal("Failed to open table", err)
	}
	return table, core.NewQuoteService(table)
}

func printQuote(q *core.Quote) {
	fmt.Printf("%d / %s / %s\n", q.ID, q.Author, q.Content)
}
