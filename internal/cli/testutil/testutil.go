// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/rawfile"
	"github.com/leapstack-labs/dlisgraph/internal/testutil"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// Project is a temporary project directory.
type Project struct {
	Dir    string
	Dump   string
	Config string
}

// SetupTestProject creates a temporary project holding the shared fixture
// as dump.yaml and, when config is not empty, a dlisgraph.yaml.
func SetupTestProject(t *testing.T, config string) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{Dir: dir, Dump: filepath.Join(dir, "dump.yaml")}
	WriteDump(t, p.Dump, rawfile.LogicalFile{Name: "main", Records: testutil.Fixture()})

	if config != "" {
		p.Config = filepath.Join(dir, "dlisgraph.yaml")
		WriteConfig(t, p.Config, config)
	}
	return p
}

// WriteDump writes logical files to path as a dump.
func WriteDump(t *testing.T, path string, files ...rawfile.LogicalFile) {
	t.Helper()
	if err := rawfile.WriteFile(&rawfile.File{LogicalFiles: files}, path); err != nil {
		t.Fatalf("failed to write dump %s: %v", path, err)
	}
}

// WriteRecords writes records to path as a single unnamed logical file.
func WriteRecords(t *testing.T, path string, recs []core.Record) {
	t.Helper()
	WriteDump(t, path, rawfile.LogicalFile{Records: recs})
}

// WriteConfig writes a configuration file.
func WriteConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config %s: %v", path, err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
