package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/rawfile"
	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/internal/testutil"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoFiles() *rawfile.File {
	return &rawfile.File{LogicalFiles: []rawfile.LogicalFile{
		{Name: "main", Records: testutil.Fixture()},
		{Records: []core.Record{
			testutil.Rec("ORIGIN", "O", nil),
			testutil.Rec("CHANNEL", "C", map[string]core.RawAttribute{
				"AXIS": testutil.Attr(testutil.Obname("MISSING")),
			}),
		}},
	}}
}

func TestLoad(t *testing.T) {
	rec := testutil.NewRecorder(t)
	entries, err := Load(context.Background(), twoFiles(), Config{Logger: rec.Logger(), Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "main", entries[0].Label())
	assert.Equal(t, "logical file 2", entries[1].Label())

	assert.Equal(t, len(testutil.Fixture()), entries[0].Session.Stats().Objects)
	assert.Len(t, entries[0].Session.Warnings(), 7)
	assert.Equal(t, 2, entries[1].Session.Stats().Objects)
	assert.Len(t, entries[1].Session.Warnings(), 1)

	// Logical files never see each other's objects.
	_, err = entries[1].Session.Object("CHANNEL", "CHANN1")
	assert.Error(t, err)

	assert.NotSame(t, entries[0].Session.Registry(), entries[1].Session.Registry())
	assert.True(t, rec.Contains("logical_file=main"))
}

func TestLoad_RegistryFunc(t *testing.T) {
	calls := 0
	entries, err := Load(context.Background(), twoFiles(), Config{
		Concurrency: 1,
		Registry: func() (*registry.Registry, error) {
			calls++
			reg := registry.NewDefault()
			reg.Unbind("CHANNEL")
			return reg, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	for _, e := range entries {
		set := e.Session.Objects()
		assert.NotContains(t, set.Types(), "CHANNEL")
		assert.Contains(t, set.UnknownTypes(), "CHANNEL")
		for _, o := range set.AllOfType("CHANNEL") {
			assert.True(t, o.Variant().IsUnknown(), o.String())
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		file   *rawfile.File
		cfg    Config
		errIs  error
		errMsg string
	}{
		{
			name: "registry",
			file: twoFiles(),
			cfg: Config{Registry: func() (*registry.Registry, error) {
				return nil, boom
			}},
			errIs: boom,
		},
		{
			name: "structural",
			file: &rawfile.File{LogicalFiles: []rawfile.LogicalFile{
				{Records: testutil.Fixture()},
				{Name: "broken", Records: []core.Record{{Name: core.ObjectName{ID: "X"}}}},
			}},
			errIs:  core.ErrMissingIdentity,
			errMsg: "broken",
		},
		{
			name:   "encodings",
			file:   twoFiles(),
			cfg:    Config{Encodings: []string{"klingon-8"}},
			errMsg: "klingon-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Load(context.Background(), tt.file, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, entries)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, twoFiles(), Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Empty(t *testing.T) {
	entries, err := Load(context.Background(), &rawfile.File{}, Config{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
