// Package session runs the load pipeline for one logical file: ingest the
// decoder's records, build one object per record through the session's
// type registry, index them and link them.
//
// A session owns its registry, its retained raw records and the current
// object set. Every pass (Load, Reload, Reproject, Link) is serialized
// against readers, and a pass that fails with a structural error leaves the
// previous state in place.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/encoding"
	"github.com/leapstack-labs/dlisgraph/internal/linker"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/objectset"
	"github.com/leapstack-labs/dlisgraph/internal/refgraph"
	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// Config holds session configuration.
type Config struct {
	// Registry maps record types to variants (optional, built-in defaults
	// if nil)
	Registry *registry.Registry
	// Encodings are tried in order on strings that are not valid UTF-8
	Encodings []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Stats summarizes the current state.
type Stats struct {
	Records      int
	Objects      int
	Duplicates   int
	UnknownTypes int
	Link         linker.Stats
}

// Session is one load of one logical file.
type Session struct {
	mu sync.RWMutex

	logger   *slog.Logger
	registry *registry.Registry
	decoder  *encoding.Decoder
	linker   *linker.Linker

	records []core.Record
	objects *objectset.Set
	graph   *refgraph.Graph

	// ingest and build diagnostics of the last successful load, and link
	// diagnostics of the last successful link
	buildDiags []diag.Diagnostic
	linkDiags  []diag.Diagnostic
	stats      Stats
}

// New creates an empty session.
func New(cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := cfg.Registry
	if reg == nil {
		reg = registry.NewDefault()
	}

	decoder, err := encoding.New(cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("failed to configure encodings: %w", err)
	}

	return &Session{
		logger:   logger,
		registry: reg,
		decoder:  decoder,
		linker:   linker.New(logger),
		objects:  objectset.New(),
		graph:    refgraph.New(),
	}, nil
}

// Load ingests records, replacing whatever the session held. The session
// retains its own normalized copies; callers keep ownership of records.
func (s *Session) Load(records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("loading records", "records", len(records))

	ingestDiags := diag.NewCollector(s.logger)
	normalized := make([]core.Record, 0, len(records))
	for _, rec := range records {
		n, err := s.normalize(rec, ingestDiags)
		if err != nil {
			return err
		}
		normalized = append(normalized, n)
	}

	if err := s.rebuild(normalized, ingestDiags.All()); err != nil {
		return err
	}
	s.records = normalized
	return nil
}

// Reload rebuilds every object from the retained records with the current
// registry, then relinks. Objects from before the reload are left as they
// were; the session stops handing them out.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("reloading", "records", len(s.records))
	// Ingest warnings do not depend on the registry; keep them.
	var ingest []diag.Diagnostic
	for _, d := range s.buildDiags {
		if d.Code == diag.CodeDecodeString || d.Code == diag.CodeDuplicateLabel {
			ingest = append(ingest, d)
		}
	}
	return s.rebuild(s.records, ingest)
}

// rebuild runs build, index and link over records and installs the result
// only if every step succeeded. Callers hold s.mu.
func (s *Session) rebuild(records []core.Record, ingest []diag.Diagnostic) error {
	buildDiags := diag.NewCollector(s.logger)
	set := objectset.New()
	duplicates := 0
	unknown := make(map[string]bool)

	for _, rec := range records {
		v := s.registry.Resolve(rec.Type)
		o := v.Build(rec.Clone(), buildDiags)
		if o == nil {
			return &core.StructuralError{
				Op:          "build",
				Type:        rec.Type,
				Fingerprint: rec.Fingerprint(),
				Err:         fmt.Errorf("variant %s built no object", v.Name),
			}
		}
		if v.IsUnknown() && !unknown[rec.Type] {
			unknown[rec.Type] = true
			buildDiags.Report(diag.Diagnostic{
				Severity: diag.SeverityInfo,
				Code:     diag.CodeUnknownType,
				Message:  "no variant bound, object kept as unknown",
				Type:     rec.Type,
			})
		}
		if set.Insert(o) {
			duplicates++
			buildDiags.Warn(diag.CodeDuplicate, o.Fingerprint(), "", "duplicate fingerprint, keeping the last object")
		}
	}

	linkDiags := diag.NewCollector(s.logger)
	res, err := s.linker.Link(set, linkDiags)
	if err != nil {
		return err
	}

	s.objects = set
	s.graph = res.Graph
	s.buildDiags = append(append([]diag.Diagnostic{}, ingest...), buildDiags.All()...)
	s.linkDiags = linkDiags.All()
	s.stats = Stats{
		Records:      len(records),
		Objects:      set.Len(),
		Duplicates:   duplicates,
		UnknownTypes: len(unknown),
		Link:         res.Stats,
	}

	s.logger.Info("load complete",
		"objects", s.stats.Objects,
		"unknown_types", s.stats.UnknownTypes,
		"warnings", s.warningCount(),
	)
	return nil
}

// Reproject rebuilds attributes and stash of every current object in place
// from its attic with the current effective schemas, then relinks. Unlike
// Reload it keeps object identity and instance-local overrides, and it
// does not consult the registry. On failure every object is restored.
func (s *Session) Reproject() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	objs := s.objects.All()
	saved := make([]object.Projection, len(objs))
	for i, o := range objs {
		saved[i] = o.Snapshot()
	}

	buildDiags := diag.NewCollector(s.logger)
	for _, o := range objs {
		o.Reproject(buildDiags)
	}

	linkDiags := diag.NewCollector(s.logger)
	res, err := s.linker.Link(s.objects, linkDiags)
	if err != nil {
		for i, o := range objs {
			o.Restore(saved[i])
		}
		return err
	}

	// Cardinality warnings are replaced; everything else from the build
	// still holds.
	var kept []diag.Diagnostic
	for _, d := range s.buildDiags {
		if d.Code != diag.CodeCardinality {
			kept = append(kept, d)
		}
	}
	s.buildDiags = append(kept, buildDiags.All()...)
	s.linkDiags = linkDiags.All()
	s.graph = res.Graph
	s.stats.Link = res.Stats
	return nil
}

// Link reruns the linker over the current objects, discarding previous
// resolutions.
func (s *Session) Link() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	linkDiags := diag.NewCollector(s.logger)
	res, err := s.linker.Link(s.objects, linkDiags)
	if err != nil {
		return err
	}
	s.linkDiags = linkDiags.All()
	s.graph = res.Graph
	s.stats.Link = res.Stats
	return nil
}

// Bind maps recordType to v from the next Load or Reload on.
func (s *Session) Bind(recordType string, v *object.Variant) error {
	return s.registry.Bind(recordType, v)
}

// BindName maps recordType to the known variant called name from the next
// Load or Reload on.
func (s *Session) BindName(recordType, name string) error {
	return s.registry.BindName(recordType, name)
}

// Unbind makes recordType resolve to the unknown variant from the next Load
// or Reload on.
func (s *Session) Unbind(recordType string) {
	s.registry.Unbind(recordType)
}

// Registry returns the session's type registry.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// Objects returns the current object set.
func (s *Session) Objects() *objectset.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects
}

// Object finds one object by record type and name.
func (s *Session) Object(recordType, name string, opts ...objectset.FindOption) (*object.Object, error) {
	return s.Objects().Find(recordType, name, opts...)
}

// Graph returns the reference graph of the last successful link.
func (s *Session) Graph() *refgraph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Diagnostics returns the ingest, build and link diagnostics of the current
// state.
func (s *Session) Diagnostics() []diag.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]diag.Diagnostic, 0, len(s.buildDiags)+len(s.linkDiags))
	out = append(out, s.buildDiags...)
	return append(out, s.linkDiags...)
}

// Warnings returns only the warning-level diagnostics.
func (s *Session) Warnings() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range s.Diagnostics() {
		if d.Severity == diag.SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Stats returns a summary of the current state.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Records returns copies of the retained, normalized records.
func (s *Session) Records() []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

func (s *Session) warningCount() int {
	n := 0
	for _, list := range [][]diag.Diagnostic{s.buildDiags, s.linkDiags} {
		for _, d := range list {
			if d.Severity == diag.SeverityWarning {
				n++
			}
		}
	}
	return n
}

// normalize validates identity, trims labels and identity fields, and
// decodes strings that are not UTF-8. It returns a copy.
func (s *Session) normalize(rec core.Record, r *diag.Collector) (core.Record, error) {
	out := core.Record{
		Type: strings.TrimSpace(rec.Type),
		Name: core.ObjectName{
			Origin: rec.Name.Origin,
			Copy:   rec.Name.Copy,
			ID:     strings.TrimSpace(rec.Name.ID),
		},
		Attributes: make(map[string]core.RawAttribute, len(rec.Attributes)),
	}
	if err := out.Validate(); err != nil {
		return core.Record{}, err
	}

	fp := out.Fingerprint()
	for _, label := range rec.Labels() {
		raw := rec.Attributes[label]
		label = strings.TrimSpace(label)
		if _, ok := out.Attributes[label]; ok {
			r.Warn(diag.CodeDuplicateLabel, fp, label, fmt.Sprintf("duplicate label %q after trimming whitespace, keeping the first", label))
			continue
		}
		attr := raw.Clone()
		attr.Unit = s.decode(strings.TrimSpace(attr.Unit), fp, label, r)
		for i, v := range attr.Values {
			if str, ok := v.(string); ok {
				attr.Values[i] = s.decode(str, fp, label, r)
			}
		}
		out.Attributes[label] = attr
	}
	return out, nil
}

func (s *Session) decode(str string, fp core.Fingerprint, label string, r *diag.Collector) string {
	decoded, used, ok := s.decoder.Decode(str)
	switch {
	case !ok:
		r.Warn(diag.CodeDecodeString, fp, label, fmt.Sprintf("string is not valid UTF-8 and no configured encoding could decode it: %q", str))
	case used != "":
		s.logger.Debug("decoded string", "fingerprint", fp.String(), "label", label, "encoding", used)
	}
	return decoded
}
