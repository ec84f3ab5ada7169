// Package linker resolves the reference attributes of every object in a set
// into direct links to other objects of the same set.
//
// A pass runs in two phases. Resolution computes every object's links and
// the reference graph without touching any object; only when the whole set
// resolved without a structural error are the links installed and the
// buffered diagnostics reported. An aborted pass therefore leaves objects,
// links and diagnostics exactly as they were.
package linker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/objectset"
	"github.com/leapstack-labs/dlisgraph/internal/refgraph"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

// Warning messages, matching what consumers of the format expect.
const (
	MsgShape   = "Unable to create object-reference"
	MsgMissing = "Unable to find linked object"
)

// Stats counts the outcome of every reference value in a pass.
type Stats struct {
	Objects    int
	Resolved   int
	Literals   int
	Dangling   int
	Mismatched int
}

// Result is the outcome of a successful pass.
type Result struct {
	Graph *refgraph.Graph
	Stats Stats
}

// Linker links object sets.
type Linker struct {
	logger *slog.Logger
}

// New creates a linker. A nil logger discards.
func New(logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Linker{logger: logger}
}

type pending struct {
	obj   *object.Object
	links map[string]any
}

// Link resolves every object in set. Recoverable problems go to r; a
// malformed reference token aborts the pass with a *core.StructuralError
// and nothing is modified.
func (l *Linker) Link(set *objectset.Set, r diag.Reporter) (*Result, error) {
	if r == nil {
		r = diag.Discard
	}

	objs := set.All()
	graph := refgraph.New()
	for _, o := range objs {
		graph.AddNode(o.Fingerprint())
	}

	p := &pass{set: set, graph: graph}
	work := make([]pending, 0, len(objs))
	for _, o := range objs {
		links, err := p.resolveObject(o)
		if err != nil {
			l.logger.Debug("link pass aborted", "fingerprint", o.Fingerprint().String(), "error", err)
			return nil, err
		}
		work = append(work, pending{obj: o, links: links})
	}

	for _, w := range work {
		w.obj.ReplaceLinks(w.links)
	}
	for _, d := range p.diags {
		r.Report(d)
	}

	p.stats.Objects = len(objs)
	l.logger.Debug("link pass complete",
		"objects", p.stats.Objects,
		"resolved", p.stats.Resolved,
		"dangling", p.stats.Dangling,
		"mismatched", p.stats.Mismatched,
	)
	return &Result{Graph: graph, Stats: p.stats}, nil
}

// LinkObject resolves a single object against set, for callers that
// reprojected one object and want to relink it without a full pass. Edges
// are not recorded.
func (l *Linker) LinkObject(o *object.Object, set *objectset.Set, r diag.Reporter) error {
	if r == nil {
		r = diag.Discard
	}
	p := &pass{set: set}
	links, err := p.resolveObject(o)
	if err != nil {
		return err
	}
	o.ReplaceLinks(links)
	for _, d := range p.diags {
		r.Report(d)
	}
	return nil
}

type pass struct {
	set   *objectset.Set
	graph *refgraph.Graph
	diags []diag.Diagnostic
	stats Stats
}

func (p *pass) resolveObject(o *object.Object) (map[string]any, error) {
	refs := o.References()
	links := make(map[string]any, len(refs))
	for _, ref := range refs {
		v, err := p.resolveAttribute(o, ref)
		if err != nil {
			return nil, &core.StructuralError{
				Op:          "link",
				Type:        o.Type(),
				Fingerprint: o.Fingerprint(),
				Label:       ref.Label,
				Err:         err,
			}
		}
		links[ref.Label] = v
	}
	return links, nil
}

// resolveAttribute resolves vectors element-wise; a failing element is nil
// in its position and never affects its siblings.
func (p *pass) resolveAttribute(o *object.Object, ref object.Reference) (any, error) {
	switch v := ref.Value.(type) {
	case nil:
		return nil, nil
	case []core.Value:
		out := make([]any, len(v))
		for i, elem := range v {
			resolved, err := p.resolve(o, ref.Label, ref.Rule, elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return p.resolve(o, ref.Label, ref.Rule, v)
	}
}

func (p *pass) resolve(o *object.Object, label string, rule linkage.Rule, v core.Value) (any, error) {
	fp, err := rule.Fingerprint(v)
	switch {
	case err == nil:
	case errors.Is(err, linkage.ErrLiteral):
		p.stats.Literals++
		return v, nil
	case errors.Is(err, linkage.ErrShape):
		p.stats.Mismatched++
		p.warn(o, label, diag.CodeObjectRef, MsgShape)
		return nil, nil
	default:
		return nil, err
	}

	target, ok := p.set.Get(fp)
	if !ok {
		p.stats.Dangling++
		p.warn(o, label, diag.CodeLinkedObject, fmt.Sprintf("%s %s", MsgMissing, fp))
		return nil, nil
	}
	p.stats.Resolved++
	if p.graph != nil {
		if err := p.graph.AddEdge(o.Fingerprint(), target.Fingerprint(), label); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func (p *pass) warn(o *object.Object, label string, code diag.Code, msg string) {
	p.diags = append(p.diags, diag.Diagnostic{
		Severity:    diag.SeverityWarning,
		Code:        code,
		Message:     msg,
		Type:        o.Type(),
		Fingerprint: o.Fingerprint(),
		Label:       label,
	})
}
