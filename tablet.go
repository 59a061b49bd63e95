package tablet

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tablet/internal/platform"
	"github.com/aretw0/tablet/pkg/adapters/fs"
	"github.com/aretw0/tablet/pkg/core"
)

// --- Types ---

// Quote is a public alias for the stored entity.
type Quote = core.Quote

// QuoteService is a public alias for the quote business layer.
type QuoteService = core.QuoteService

// QuoteTable is a public alias for the filesystem quote table.
type QuoteTable = fs.Table[*core.Quote]

// Page is a public alias for one page of listing results.
type Page = core.Page[*core.Quote]

// SearchQuery is a public alias for search parameters.
type SearchQuery = core.SearchQuery

// Config is a public alias for the YAML configuration file.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a store.
type Option = platform.Option

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom repository.
func WithRepository(repo core.Repository[*core.Quote]) Option {
	return platform.WithRepository(repo)
}

// WithTable overrides the entity type directory name.
func WithTable(name string) Option {
	return platform.WithTable(name)
}

// WithSkipMalformed makes listings skip records that fail to decode.
func WithSkipMalformed(skip bool) Option {
	return platform.WithSkipMalformed(skip)
}

// WithProcessLock guards writes with a lock file shared between processes.
func WithProcessLock(enabled bool) Option {
	return platform.WithProcessLock(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMetrics registers Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// WithSerializer replaces the flat record format.
func WithSerializer(s fs.Serializer) Option {
	return platform.WithSerializer(s)
}

// WithEventBuffer sets the capacity of watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watch loop failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open creates a QuoteService storing quotes under baseDir.
func Open(baseDir string, opts ...Option) (*QuoteService, error) {
	return platform.Open(baseDir, opts...)
}

// OpenTable creates the filesystem quote table directly.
func OpenTable(baseDir string, opts ...Option) (*QuoteTable, error) {
	return platform.NewTable(baseDir, opts...)
}

// NewQuote returns a transient quote ready to be saved.
func NewQuote(content, author string) *Quote {
	return core.NewQuote(content, author)
}

// --- Config ---

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return platform.DefaultConfig()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// FindConfig looks upwards from startDir for tablet.yaml.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}

// --- Safety & Utils ---

// ResolveBaseDir determines the directory a store actually uses.
func ResolveBaseDir(userPath string, forceTemp bool) string {
	return platform.ResolveBaseDir(userPath, forceTemp)
}
