// Package state persists linked object graphs into a SQLite catalog so
// loads can be listed, compared and queried after the session is gone.
package state

import (
	"context"
	"time"
)

// Load is one persisted session load.
type Load struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Records   int
	Objects   int
	Warnings  int
}

// ObjectRow is one persisted object. Attributes and Stash hold JSON.
type ObjectRow struct {
	Fingerprint string
	Type        string
	Origin      uint32
	Copy        uint8
	Name        string
	Variant     string
	Attributes  string
	Stash       string
}

// LinkRow is one resolved reference. Position is the element index for
// vector attributes and 0 for scalars.
type LinkRow struct {
	Source   string
	Label    string
	Position int
	Target   string
}

// DiagnosticRow is one persisted diagnostic.
type DiagnosticRow struct {
	Severity    string
	Code        string
	Type        string
	Fingerprint string
	Label       string
	Message     string
}

// Snapshot is everything SaveLoad writes for one load.
type Snapshot struct {
	Source      string
	Records     int
	Warnings    int
	Objects     []ObjectRow
	Links       []LinkRow
	Diagnostics []DiagnosticRow
}

// Store is the catalog interface.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	SaveLoad(ctx context.Context, snap *Snapshot) (*Load, error)
	GetLoad(ctx context.Context, id string) (*Load, error)
	LatestLoad(ctx context.Context, source string) (*Load, error)
	ListLoads(ctx context.Context) ([]Load, error)
	DeleteLoad(ctx context.Context, id string) error

	Objects(ctx context.Context, loadID, recordType string) ([]ObjectRow, error)
	Referrers(ctx context.Context, loadID, target string) ([]LinkRow, error)
	Diagnostics(ctx context.Context, loadID string) ([]DiagnosticRow, error)
}

var _ Store = (*SQLiteStore)(nil)
