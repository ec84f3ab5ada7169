// Package diag collects recoverable problems found while building and
// linking objects. Nothing recorded here aborts a pass.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// Severity of a diagnostic.
type Severity int

// Severity values.
const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Code classifies a diagnostic.
type Code string

// Diagnostic codes.
const (
	CodeCardinality    Code = "cardinality"
	CodeObjectRef      Code = "object-reference"
	CodeLinkedObject   Code = "linked-object"
	CodeDuplicate      Code = "duplicate-fingerprint"
	CodeDuplicateLabel Code = "duplicate-label"
	CodeUnknownType    Code = "unknown-type"
	CodeDecodeString   Code = "decode-string"
	CodeSampling       Code = "sampling"
)

// Diagnostic is one recoverable problem with its location.
type Diagnostic struct {
	Severity    Severity
	Code        Code
	Message     string
	Type        string
	Fingerprint core.Fingerprint
	Label       string
}

func (d Diagnostic) String() string {
	loc := d.Fingerprint.String()
	if d.Fingerprint == (core.Fingerprint{}) {
		loc = d.Type
	}
	if d.Label != "" {
		loc += "." + d.Label
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, loc, d.Message)
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Collector accumulates diagnostics and mirrors each one to a logger.
type Collector struct {
	mu     sync.Mutex
	items  []Diagnostic
	logger *slog.Logger
}

// NewCollector returns a collector logging to logger. A nil logger discards.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{logger: logger}
}

// Report records d and logs it.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()

	level := slog.LevelInfo
	if d.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("code", string(d.Code))}
	if d.Type != "" {
		attrs = append(attrs, slog.String("type", d.Type))
	}
	if d.Fingerprint != (core.Fingerprint{}) {
		attrs = append(attrs, slog.String("fingerprint", d.Fingerprint.String()))
	}
	if d.Label != "" {
		attrs = append(attrs, slog.String("label", d.Label))
	}
	c.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}

// Warn is shorthand for reporting a warning.
func (c *Collector) Warn(code Code, fp core.Fingerprint, label, msg string) {
	c.Report(Diagnostic{Severity: SeverityWarning, Code: code, Message: msg, Type: fp.Type, Fingerprint: fp, Label: label})
}

// All returns a copy of the collected diagnostics in report order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Warnings returns only warning-level diagnostics.
func (c *Collector) Warnings() []Diagnostic {
	return filter(c.All(), func(d Diagnostic) bool { return d.Severity == SeverityWarning })
}

// ByCode returns the diagnostics carrying code.
func (c *Collector) ByCode(code Code) []Diagnostic {
	return filter(c.All(), func(d Diagnostic) bool { return d.Code == code })
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Merge appends all diagnostics from other without logging them again.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	items := other.All()
	c.mu.Lock()
	c.items = append(c.items, items...)
	c.mu.Unlock()
}

// Counts returns the number of diagnostics per code.
func (c *Collector) Counts() map[Code]int {
	counts := make(map[Code]int)
	for _, d := range c.All() {
		counts[d.Code]++
	}
	return counts
}

// Codes returns the codes present, sorted.
func (c *Collector) Codes() []Code {
	counts := c.Counts()
	codes := make([]Code, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func filter(items []Diagnostic, keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
