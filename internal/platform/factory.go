package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/tablet/pkg/adapters/fs"
	"github.com/aretw0/tablet/pkg/core"
)

// Open creates the quote table under baseDir and wraps it in a QuoteService.
//
//	svc, err := tablet.Open("./db", tablet.WithProcessLock(true))
//
// Nothing is written until the first mutation.
func Open(baseDir string, opts ...Option) (*core.QuoteService, error) {
	repo, err := Init(baseDir, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewQuoteService(repo), nil
}

// Init resolves the options into a repository. An injected repository wins
// over the filesystem table.
func Init(baseDir string, opts ...Option) (core.Repository[*core.Quote], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	table, err := newTable(baseDir, o)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// NewTable builds the filesystem quote table directly, for callers that need
// its extra operations (Drop, Snapshot, Watch, State).
func NewTable(baseDir string, opts ...Option) (*fs.Table[*core.Quote], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newTable(baseDir, o)
}

// ErrInvalidTableName is returned for table names that are not a single
// directory name inside the base directory.
var ErrInvalidTableName = errors.New("invalid table name")

// ValidateTableName accepts a plain directory name: not empty, not "." or
// "..", and without path separators.
func ValidateTableName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

func newTable(baseDir string, o *options) (*fs.Table[*core.Quote], error) {
	if err := ValidateTableName(o.table); err != nil {
		return nil, err
	}

	resolved := ResolveBaseDir(baseDir, o.forceTemp)
	if o.logger != nil && resolved != baseDir && o.forceTemp {
		o.logger.Warn("running in SAFE MODE (temp dir)", "original_path", baseDir, "resolved_path", resolved)
	}

	var metrics *fs.Metrics
	if o.registerer != nil {
		metrics = fs.NewMetrics(o.registerer)
	}

	schema := core.QuoteSchema
	schema.Name = o.table

	return fs.NewTable(schema, fs.Config{
		BaseDir:       resolved,
		Logger:        o.logger,
		SkipMalformed: o.skipMalformed,
		ProcessLock:   o.processLock,
		Serializer:    o.serializer,
		Metrics:       metrics,
		EventBuffer:   o.eventBuffer,
		ErrorHandler:  o.errorHandler,
	}), nil
}
