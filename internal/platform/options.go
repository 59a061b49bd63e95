package platform

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tablet/pkg/adapters/fs"
	"github.com/aretw0/tablet/pkg/core"
)

// DefaultTable is the entity type directory used when none is configured.
const DefaultTable = core.QuoteTableName

// options holds the internal configuration for opening a store.
type options struct {
	repository    core.Repository[*core.Quote]
	logger        *slog.Logger
	table         string
	skipMalformed bool
	processLock   bool
	forceTemp     bool
	registerer    prometheus.Registerer
	serializer    fs.Serializer
	eventBuffer   int
	errorHandler  func(error)
}

// Option defines a functional option for configuring a store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		table: DefaultTable,
	}
}

// WithLogger sets the logger for the store. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom repository (e.g. a mock).
// If provided, the filesystem table is not created.
func WithRepository(repo core.Repository[*core.Quote]) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithTable overrides the entity type directory name (default "quotes").
func WithTable(name string) Option {
	return func(o *options) {
		if name != "" {
			o.table = name
		}
	}
}

// WithSkipMalformed makes listings log and skip records that fail to decode
// instead of failing.
func WithSkipMalformed(skip bool) Option {
	return func(o *options) {
		o.skipMalformed = skip
	}
}

// WithProcessLock guards writes with a lock file shared between processes.
func WithProcessLock(enabled bool) Option {
	return func(o *options) {
		o.processLock = enabled
	}
}

// WithForceTemp re-roots the base directory under the system temp directory
// (useful for demos and tests).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithMetrics registers the table's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithSerializer replaces the flat record format.
func WithSerializer(s fs.Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithEventBuffer sets the capacity of watch channels.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during the
// Watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
