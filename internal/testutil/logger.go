// Package testutil provides test utilities for structured logging and shared
// record fixtures.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Recorder captures log output so tests can assert on emitted warnings.
// Everything is also forwarded to t.Log().
type Recorder struct {
	t   testing.TB
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecorder returns an empty recorder bound to t.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()
	return &Recorder{t: t}
}

// Logger returns a debug-level text logger writing into the recorder.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(r, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	r.buf.Write(p)
	r.mu.Unlock()
	r.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Lines returns the captured log lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := strings.TrimRight(r.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Contains reports whether any captured line contains substr.
func (r *Recorder) Contains(substr string) bool {
	return r.Count(substr) > 0
}

// Count returns the number of captured lines containing substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// CountLevel returns the number of captured lines at level (e.g. "WARN").
func (r *Recorder) CountLevel(level string) int {
	return r.Count("level=" + level)
}

// Reset drops captured output.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.buf.Reset()
	r.mu.Unlock()
}
