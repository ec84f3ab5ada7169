package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrNotOpen is returned by every operation on a store that is not open.
var ErrNotOpen = errors.New("database not opened")

// ErrLoadNotFound is returned when no load matches.
var ErrLoadNotFound = errors.New("load not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database, creating its directory
// if needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would see its own empty database.
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveLoad writes snap as a new load in a single transaction.
func (s *SQLiteStore) SaveLoad(ctx context.Context, snap *Snapshot) (*Load, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	load := &Load{
		ID:        generateID(),
		Source:    snap.Source,
		CreatedAt: time.Now().UTC(),
		Records:   snap.Records,
		Objects:   len(snap.Objects),
		Warnings:  snap.Warnings,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loads (id, source, created_at, records, objects, warnings) VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.Source, load.CreatedAt, load.Records, load.Objects, load.Warnings,
	); err != nil {
		return nil, fmt.Errorf("failed to create load: %w", err)
	}

	for _, o := range snap.Objects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO objects (load_id, fingerprint, type, origin, copy, name, variant, attributes, stash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			load.ID, o.Fingerprint, o.Type, o.Origin, o.Copy, o.Name, o.Variant, o.Attributes, o.Stash,
		); err != nil {
			return nil, fmt.Errorf("failed to save object %s: %w", o.Fingerprint, err)
		}
	}

	for _, l := range snap.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (load_id, source, label, position, target) VALUES (?, ?, ?, ?, ?)`,
			load.ID, l.Source, l.Label, l.Position, l.Target,
		); err != nil {
			return nil, fmt.Errorf("failed to save link %s.%s: %w", l.Source, l.Label, err)
		}
	}

	for i, d := range snap.Diagnostics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (load_id, seq, severity, code, type, fingerprint, label, message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			load.ID, i, d.Severity, d.Code, d.Type, d.Fingerprint, d.Label, d.Message,
		); err != nil {
			return nil, fmt.Errorf("failed to save diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit load: %w", err)
	}
	return load, nil
}

const loadColumns = `id, source, created_at, records, objects, warnings`

func scanLoad(row interface{ Scan(...any) error }) (*Load, error) {
	l := &Load{}
	if err := row.Scan(&l.ID, &l.Source, &l.CreatedAt, &l.Records, &l.Objects, &l.Warnings); err != nil {
		return nil, err
	}
	return l, nil
}

// GetLoad retrieves a load by ID.
func (s *SQLiteStore) GetLoad(ctx context.Context, id string) (*Load, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	l, err := scanLoad(s.db.QueryRowContext(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLoadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get load: %w", err)
	}
	return l, nil
}

// LatestLoad returns the most recent load of source.
func (s *SQLiteStore) LatestLoad(ctx context.Context, source string) (*Load, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	l, err := scanLoad(s.db.QueryRowContext(ctx,
		`SELECT `+loadColumns+` FROM loads WHERE source = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		source,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLoadNotFound, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest load: %w", err)
	}
	return l, nil
}

// ListLoads returns every load, newest first.
func (s *SQLiteStore) ListLoads(ctx context.Context) ([]Load, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+loadColumns+` FROM loads ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var loads []Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, *l)
	}
	return loads, rows.Err()
}

// DeleteLoad removes a load together with its objects, links and
// diagnostics.
func (s *SQLiteStore) DeleteLoad(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM loads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete load: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrLoadNotFound, id)
	}
	return nil
}

// Objects returns the objects of a load, optionally only those of
// recordType, ordered by fingerprint.
func (s *SQLiteStore) Objects(ctx context.Context, loadID, recordType string) ([]ObjectRow, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query := `SELECT fingerprint, type, origin, copy, name, variant, attributes, stash FROM objects WHERE load_id = ?`
	args := []any{loadID}
	if recordType != "" {
		query += ` AND type = ?`
		args = append(args, recordType)
	}
	query += ` ORDER BY type, name, origin, copy`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ObjectRow
	for rows.Next() {
		var o ObjectRow
		if err := rows.Scan(&o.Fingerprint, &o.Type, &o.Origin, &o.Copy, &o.Name, &o.Variant, &o.Attributes, &o.Stash); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Referrers returns the links of a load that point at target.
func (s *SQLiteStore) Referrers(ctx context.Context, loadID, target string) ([]LinkRow, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, label, position, target FROM links WHERE load_id = ? AND target = ? ORDER BY source, label, position`,
		loadID, target,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []LinkRow
	for rows.Next() {
		var l LinkRow
		if err := rows.Scan(&l.Source, &l.Label, &l.Position, &l.Target); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Diagnostics returns the diagnostics of a load in the order they were
// reported.
func (s *SQLiteStore) Diagnostics(ctx context.Context, loadID string) ([]DiagnosticRow, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT severity, code, type, fingerprint, label, message FROM diagnostics WHERE load_id = ? ORDER BY seq`,
		loadID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DiagnosticRow
	for rows.Next() {
		var d DiagnosticRow
		if err := rows.Scan(&d.Severity, &d.Code, &d.Type, &d.Fingerprint, &d.Label, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
