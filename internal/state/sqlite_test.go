package state

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/session"
	"github.com/leapstack-labs/dlisgraph/internal/testutil"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"), "failed to open store")
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(), "failed to migrate store")
	return store
}

func fixtureSnapshot(t *testing.T, source string) *Snapshot {
	t.Helper()
	s, err := session.New(session.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	require.NoError(t, s.Load(testutil.Fixture()))
	snap, err := NewSnapshot(source, s)
	require.NoError(t, err)
	return snap
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	assert.Equal(t, ":memory:", store.Path())
	require.NoError(t, store.Close())

	// Closing an unopened store is a no-op.
	require.NoError(t, NewSQLiteStore().Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Verify tables exist by querying them
	for _, table := range []string{"loads", "objects", "links", "diagnostics"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if assert.NoError(t, err, "table %s does not exist", table) {
			_ = rows.Close()
		}
	}

	// Running again is a no-op.
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_NotOpen(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Migrate(), ErrNotOpen)
	_, err := store.SaveLoad(ctx, &Snapshot{})
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = store.ListLoads(ctx)
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = store.Objects(ctx, "x", "")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, store.DeleteLoad(ctx, "x"), ErrNotOpen)
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	ctx := context.Background()

	store := NewSQLiteStore()
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	saved, err := store.SaveLoad(ctx, &Snapshot{Source: "a.yaml", Records: 1})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore()
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate())

	got, err := reopened.GetLoad(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", got.Source)
	assert.Equal(t, 1, got.Records)
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	snap := fixtureSnapshot(t, "fixture.yaml")

	load, err := store.SaveLoad(ctx, snap)
	require.NoError(t, err)
	assert.NotEmpty(t, load.ID)
	assert.Equal(t, len(testutil.Fixture()), load.Records)
	assert.Equal(t, load.Records, load.Objects)
	assert.Equal(t, 7, load.Warnings)

	got, err := store.GetLoad(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, load.ID, got.ID)
	assert.Equal(t, load.Objects, got.Objects)
	assert.WithinDuration(t, load.CreatedAt, got.CreatedAt, 0)

	t.Run("objects by type", func(t *testing.T) {
		channels, err := store.Objects(ctx, load.ID, "CHANNEL")
		require.NoError(t, err)
		require.Len(t, channels, 4)
		assert.Equal(t, "CHANN1", channels[0].Name)
		assert.Equal(t, uint32(testutil.FixtureOrigin), channels[0].Origin)
		assert.Equal(t, "CHANNEL", channels[0].Variant)

		var attrs map[string]any
		require.NoError(t, json.Unmarshal([]byte(channels[0].Attributes), &attrs))
		assert.Contains(t, attrs, "PROPERTIES")

		all, err := store.Objects(ctx, load.ID, "")
		require.NoError(t, err)
		assert.Len(t, all, load.Objects)
	})

	t.Run("unknown objects keep their stash", func(t *testing.T) {
		rows, err := store.Objects(ctx, load.ID, "UNKNOWN_SET")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "unknown", rows[0].Variant)
		assert.Equal(t, "{}", rows[0].Attributes)

		var stash map[string]any
		require.NoError(t, json.Unmarshal([]byte(rows[0].Stash), &stash))
		assert.Len(t, stash, 3)
	})

	t.Run("referrers", func(t *testing.T) {
		channels, err := store.Objects(ctx, load.ID, "TOOL")
		require.NoError(t, err)
		require.NotEmpty(t, channels)
		tool1 := channels[0]
		require.Equal(t, "TOOL1", tool1.Name)

		links, err := store.Referrers(ctx, load.ID, tool1.Fingerprint)
		require.NoError(t, err)
		var labels []string
		for _, l := range links {
			labels = append(labels, l.Label)
			assert.Equal(t, tool1.Fingerprint, l.Target)
		}
		assert.ElementsMatch(t, []string{"SOURCE", "MEASUREMENT-SOURCE", "OBJECT-LIST"}, labels)
	})

	t.Run("dangling references are not stored", func(t *testing.T) {
		tool1 := core.Fingerprint{Type: "TOOL", Name: "TOOL1", Origin: 10}.String()
		var positions []int
		for _, l := range snap.Links {
			if l.Source == tool1 && l.Label == "PARAMETERS" {
				positions = append(positions, l.Position)
			}
		}
		// PARAMX in the middle is missing.
		assert.Equal(t, []int{0, 2}, positions)
	})

	t.Run("diagnostics", func(t *testing.T) {
		ds, err := store.Diagnostics(ctx, load.ID)
		require.NoError(t, err)
		require.Len(t, ds, len(snap.Diagnostics))

		warnings := 0
		for _, d := range ds {
			if d.Severity == "warning" {
				warnings++
			}
		}
		assert.Equal(t, 7, warnings)
		assert.Equal(t, snap.Diagnostics, ds, "order is preserved")
	})
}

func TestSQLiteStore_LoadLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.SaveLoad(ctx, &Snapshot{Source: "a.yaml", Records: 1})
	require.NoError(t, err)
	second, err := store.SaveLoad(ctx, &Snapshot{Source: "a.yaml", Records: 2})
	require.NoError(t, err)
	other, err := store.SaveLoad(ctx, &Snapshot{Source: "b.yaml", Records: 3})
	require.NoError(t, err)

	loads, err := store.ListLoads(ctx)
	require.NoError(t, err)
	require.Len(t, loads, 3)
	assert.Equal(t, other.ID, loads[0].ID, "newest first")

	latest, err := store.LatestLoad(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	require.NoError(t, store.DeleteLoad(ctx, second.ID))
	latest, err = store.LatestLoad(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	err = store.DeleteLoad(ctx, second.ID)
	assert.True(t, errors.Is(err, ErrLoadNotFound))

	_, err = store.GetLoad(ctx, second.ID)
	assert.ErrorIs(t, err, ErrLoadNotFound)
	_, err = store.LatestLoad(ctx, "c.yaml")
	assert.ErrorIs(t, err, ErrLoadNotFound)
}

func TestSQLiteStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	load, err := store.SaveLoad(ctx, fixtureSnapshot(t, "fixture.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.DeleteLoad(ctx, load.ID))

	for _, table := range []string{"objects", "links", "diagnostics"} {
		var n int
		require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE load_id = ?", load.ID).Scan(&n))
		assert.Zero(t, n, "%s rows left behind", table)
	}
}
