// Package batch loads every logical file of a dump into its own session.
// Sessions share nothing, so they are loaded concurrently; each load stays
// single-threaded inside its session.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/dlisgraph/internal/rawfile"
	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/internal/session"
	"golang.org/x/sync/errgroup"
)

// RegistryFunc returns a fresh registry for one session.
type RegistryFunc func() (*registry.Registry, error)

// Config holds batch configuration.
type Config struct {
	// Registry builds each session's registry (optional, built-in defaults
	// if nil). Sessions never share a registry.
	Registry RegistryFunc
	// Encodings are passed to every session
	Encodings []string
	// Concurrency bounds parallel loads (optional, GOMAXPROCS if zero)
	Concurrency int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Entry is one loaded logical file.
type Entry struct {
	Index   int
	Name    string
	Session *session.Session
}

// Label names the entry for humans.
func (e *Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("logical file %d", e.Index+1)
}

// Load loads every logical file of f. It returns the entries in file order,
// or the first error; a failing logical file cancels the loads not yet
// started.
func Load(ctx context.Context, f *rawfile.File, cfg Config) ([]*Entry, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newRegistry := cfg.Registry
	if newRegistry == nil {
		newRegistry = func() (*registry.Registry, error) { return registry.NewDefault(), nil }
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	entries := make([]*Entry, len(f.LogicalFiles))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, lf := range f.LogicalFiles {
		entry := &Entry{Index: i, Name: lf.Name}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}

			reg, err := newRegistry()
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Label(), err)
			}
			s, err := session.New(session.Config{
				Registry:  reg,
				Encodings: cfg.Encodings,
				Logger:    logger.With("logical_file", entry.Label()),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Label(), err)
			}
			if err := s.Load(lf.Records); err != nil {
				return fmt.Errorf("%s: %w", entry.Label(), err)
			}

			entry.Session = s
			entries[i] = entry
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("batch loaded", "logical_files", len(entries))
	return entries, nil
}
