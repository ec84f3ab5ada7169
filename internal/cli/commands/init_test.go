package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/cli/testutil"
	"github.com/leapstack-labs/dlisgraph/internal/config"
	"github.com/leapstack-labs/dlisgraph/internal/rawfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"dlisgraph.yaml", ".gitignore"},
		},
		{
			name:      "init with example",
			args:      []string{"--example"},
			wantFiles: []string{"dlisgraph.yaml", ".gitignore", "dumps/example.yaml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "dlisgraph.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "dlisgraph.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"dlisgraph.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	for _, template := range []string{"minimal", "example"} {
		t.Run(template, func(t *testing.T) {
			dir := t.TempDir()
			r := testutil.NewTestRendererText()
			require.NoError(t, runInit(r.Renderer, dir, template, false))

			cfg, err := config.Load(filepath.Join(dir, "dlisgraph.yaml"), nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, ".dlisgraph", "catalog.db"), cfg.StatePath)
			assert.Contains(t, r.Out.String(), "dlisgraph project initialized")
		})
	}
}

func TestInitExampleDumpParses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(testutil.NewTestRendererText().Renderer, dir, "example", false))

	f, err := rawfile.LoadFile(filepath.Join(dir, "dumps", "example.yaml"))
	require.NoError(t, err)
	require.Len(t, f.LogicalFiles, 1)
	assert.Equal(t, "main", f.LogicalFiles[0].Name)
	assert.Len(t, f.Records(), 6)
}

func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("mine\n"), 0600))

	sc, err := writeTemplate("example", dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"dlisgraph.yaml"}, sc.Config)
	assert.Equal(t, []string{"dumps/example.yaml"}, sc.Dumps)
	assert.Equal(t, []string{".gitignore"}, sc.Kept)

	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(content))

	sc, err = writeTemplate("example", dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"dlisgraph.yaml", ".gitignore"}, sc.Config)
	assert.Empty(t, sc.Kept)

	sc, err = writeTemplate("minimal", t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"dlisgraph.yaml", ".gitignore"}, sc.Config)
	assert.Empty(t, sc.Dumps)
}
