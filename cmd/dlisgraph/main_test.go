// Package main provides end-to-end tests for the dlisgraph CLI.
package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/cli"
	clitest "github.com/leapstack-labs/dlisgraph/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dlisgraph v")
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "--help")
	require.NoError(t, err)

	for _, sub := range []string{"inspect", "show", "types", "catalog", "watch", "init", "completion"} {
		assert.Contains(t, out, sub)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, t.TempDir(), "completion", shell)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	_, err := run(t, t.TempDir(), "completion", "tcsh")
	assert.Error(t, err)
}

func TestInspect_UsesProjectConfig(t *testing.T) {
	p := clitest.SetupTestProject(t, "types:\n  UNKNOWN_SET: GROUP\n")

	out, err := run(t, p.Dir, "inspect", p.Dump, "--output", "json")
	require.NoError(t, err)

	var got struct {
		LogicalFiles []struct {
			Name         string   `json:"name"`
			UnknownTypes []string `json:"unknown_types"`
			Types        []struct {
				Type    string `json:"type"`
				Variant string `json:"variant"`
			} `json:"types"`
		} `json:"logical_files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.LogicalFiles, 1)
	assert.Equal(t, "main", got.LogicalFiles[0].Name)
	assert.Empty(t, got.LogicalFiles[0].UnknownTypes)

	variants := map[string]string{}
	for _, ty := range got.LogicalFiles[0].Types {
		variants[ty.Type] = ty.Variant
	}
	assert.Equal(t, "GROUP", variants["UNKNOWN_SET"])
}

func TestInspect_InvalidConfig(t *testing.T) {
	p := clitest.SetupTestProject(t, "attributes:\n  CHANNEL:\n    UNITS: sideways\n")

	_, err := run(t, p.Dir, "inspect", p.Dump)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestCatalog_EndToEnd(t *testing.T) {
	p := clitest.SetupTestProject(t, "")
	state := filepath.Join(p.Dir, "state", "catalog.db")

	out, err := run(t, p.Dir, "catalog", p.Dump, "--state", state, "-o", "json")
	require.NoError(t, err)

	var saved []struct {
		ID       string `json:"id"`
		Source   string `json:"source"`
		Objects  int    `json:"objects"`
		Warnings int    `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, 7, saved[0].Warnings)
	assert.True(t, strings.HasSuffix(saved[0].Source, "dump.yaml#main"), saved[0].Source)

	out, err = run(t, p.Dir, "catalog", "list", "--state", state, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, saved[0].ID)

	_, err = run(t, p.Dir, "catalog", "delete", saved[0].ID, "--state", state)
	require.NoError(t, err)

	_, err = run(t, p.Dir, "catalog", "delete", saved[0].ID, "--state", state)
	assert.Error(t, err)
}
