// Package object implements the basic object: an identity, the raw
// attributes it was built from (the attic), the coerced attributes its
// schema declares, and a stash for everything else.
package object

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/schema"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
)

// ErrNoAttribute is returned by Get for a label the object does not have.
var ErrNoAttribute = errors.New("no such attribute")

// Reference is an unresolved reference value together with the rule the
// linker resolves it with.
type Reference struct {
	Label string
	Value any
	Rule  linkage.Rule
}

// Object is a projected record. It is safe for concurrent use: readers may
// run while the object is reprojected or relinked.
type Object struct {
	mu sync.RWMutex

	fp      core.Fingerprint
	variant *Variant
	attic   map[string]core.RawAttribute

	attrSchema *schema.Local[valuetype.Coercer]
	linkSchema *schema.Local[linkage.Rule]

	attributes map[string]any
	stash      map[string][]core.Value
	refs       map[string]Reference
	links      map[string]any
	linked     bool
}

// New projects rec through v. rec is retained as the attic; callers hand
// over ownership.
func New(v *Variant, rec core.Record, r diag.Reporter) *Object {
	attic := rec.Attributes
	if attic == nil {
		attic = map[string]core.RawAttribute{}
	}
	o := &Object{
		fp:         rec.Fingerprint(),
		variant:    v,
		attic:      attic,
		attrSchema: schema.NewLocal(v.Attributes),
		linkSchema: schema.NewLocal(v.Linkage),
	}
	o.project(r)
	return o
}

// Fingerprint returns the object identity.
func (o *Object) Fingerprint() core.Fingerprint { return o.fp }

// Type returns the on-file record type, whatever variant parsed it.
func (o *Object) Type() string { return o.fp.Type }

// Name returns the object name.
func (o *Object) Name() string { return o.fp.Name }

// Origin returns the origin reference.
func (o *Object) Origin() uint32 { return o.fp.Origin }

// Copy returns the copy number.
func (o *Object) Copy() uint8 { return o.fp.Copy }

// Variant returns the variant the object was built with.
func (o *Object) Variant() *Variant { return o.variant }

func (o *Object) String() string {
	return fmt.Sprintf("%s(%s)", o.variant.Name, o.fp.Name)
}

// Reproject rebuilds attributes, stash and references from the attic with
// the current effective schema. Previous links are discarded.
func (o *Object) Reproject(r diag.Reporter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.project(r)
}

func (o *Object) project(r diag.Reporter) {
	if r == nil {
		r = diag.Discard
	}
	coercers := o.attrSchema.Effective()

	attributes := make(map[string]any, len(coercers))
	stash := make(map[string][]core.Value)
	for _, label := range sortedLabels(o.attic) {
		raw := o.attic[label]
		c, ok := coercers[label]
		if !ok {
			values := make([]core.Value, len(raw.Values))
			copy(values, raw.Values)
			stash[label] = values
			continue
		}
		v, warn := c.Coerce(raw.Values)
		if warn != "" {
			r.Report(diag.Diagnostic{
				Severity:    diag.SeverityWarning,
				Code:        diag.CodeCardinality,
				Message:     warn,
				Type:        o.fp.Type,
				Fingerprint: o.fp,
				Label:       label,
			})
		}
		attributes[label] = v
	}
	for label, c := range coercers {
		if _, ok := attributes[label]; !ok {
			attributes[label] = c.Zero()
		}
	}

	refs := make(map[string]Reference)
	for label, rule := range o.linkSchema.Effective() {
		if rule == nil || rule == linkage.None {
			continue
		}
		v, ok := attributes[label]
		if !ok {
			continue
		}
		refs[label] = Reference{Label: label, Value: v, Rule: rule}
	}

	o.attributes = attributes
	o.stash = stash
	o.refs = refs
	o.links = nil
	o.linked = false
}

// Get returns the resolved link for label if the object is linked, else the
// coerced attribute, else the stashed raw values.
func (o *Object) Get(label string) (any, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.linked {
		if v, ok := o.links[label]; ok {
			return v, nil
		}
	}
	if v, ok := o.attributes[label]; ok {
		return v, nil
	}
	if v, ok := o.stash[label]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w: %s", o.fp, ErrNoAttribute, label)
}

// Value is Get without the error; a missing label yields nil.
func (o *Object) Value(label string) any {
	v, _ := o.Get(label)
	return v
}

// Attic returns a copy of the raw attributes.
func (o *Object) Attic() map[string]core.RawAttribute {
	out := make(map[string]core.RawAttribute, len(o.attic))
	for k, v := range o.attic {
		out[k] = v.Clone()
	}
	return out
}

// Unit returns the on-file unit of label.
func (o *Object) Unit(label string) string {
	return o.attic[label].Unit
}

// Attributes returns a snapshot of the coerced attributes.
func (o *Object) Attributes() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]any, len(o.attributes))
	for k, v := range o.attributes {
		out[k] = v
	}
	return out
}

// Stash returns a snapshot of the attributes not declared by the schema.
func (o *Object) Stash() map[string][]core.Value {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string][]core.Value, len(o.stash))
	for k, v := range o.stash {
		values := make([]core.Value, len(v))
		copy(values, v)
		out[k] = values
	}
	return out
}

// References returns the unresolved references, sorted by label.
func (o *Object) References() []Reference {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Reference, 0, len(o.refs))
	for _, ref := range o.refs {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Links returns a snapshot of the resolved links, or nil when unlinked.
func (o *Object) Links() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.linked {
		return nil
	}
	out := make(map[string]any, len(o.links))
	for k, v := range o.links {
		out[k] = v
	}
	return out
}

// Linked reports whether links are current for the present projection.
func (o *Object) Linked() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.linked
}

// ReplaceLinks installs the resolved links for every reference label,
// discarding previous resolutions.
func (o *Object) ReplaceLinks(links map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.links = links
	o.linked = true
}

// Projection is a saved copy of an object's derived state: attributes,
// stash, references and links. The attic and schema overrides are not part
// of it.
type Projection struct {
	attributes map[string]any
	stash      map[string][]core.Value
	refs       map[string]Reference
	links      map[string]any
	linked     bool
}

// Snapshot saves the derived state so a failed pass can restore it.
func (o *Object) Snapshot() Projection {
	o.mu.RLock()
	defer o.mu.RUnlock()
	// project and ReplaceLinks swap whole maps, so sharing them is safe.
	return Projection{
		attributes: o.attributes,
		stash:      o.stash,
		refs:       o.refs,
		links:      o.links,
		linked:     o.linked,
	}
}

// Restore puts back state saved by Snapshot.
func (o *Object) Restore(p Projection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attributes = p.attributes
	o.stash = p.stash
	o.refs = p.refs
	o.links = p.links
	o.linked = p.linked
}

// Instance-local schema overrides. They take effect on the next Reproject
// and never touch sibling objects of the same variant.

// SetAttribute overrides the coercer for label on this object only.
func (o *Object) SetAttribute(label string, c valuetype.Coercer) {
	o.mu.Lock()
	o.attrSchema.Set(label, c)
	o.mu.Unlock()
}

// MaskAttribute removes label from this object's attribute schema.
func (o *Object) MaskAttribute(label string) {
	o.mu.Lock()
	o.attrSchema.Mask(label)
	o.mu.Unlock()
}

// ReplaceAttributes swaps this object's whole attribute schema.
func (o *Object) ReplaceAttributes(m map[string]valuetype.Coercer) {
	o.mu.Lock()
	o.attrSchema.Replace(m)
	o.mu.Unlock()
}

// SetLinkage overrides the linkage rule for label on this object only.
func (o *Object) SetLinkage(label string, rule linkage.Rule) {
	o.mu.Lock()
	o.linkSchema.Set(label, rule)
	o.mu.Unlock()
}

// MaskLinkage removes label from this object's linkage schema.
func (o *Object) MaskLinkage(label string) {
	o.mu.Lock()
	o.linkSchema.Mask(label)
	o.mu.Unlock()
}

// ReplaceLinkage swaps this object's whole linkage schema.
func (o *Object) ReplaceLinkage(m map[string]linkage.Rule) {
	o.mu.Lock()
	o.linkSchema.Replace(m)
	o.mu.Unlock()
}

// RevertOverrides drops every instance-local override.
func (o *Object) RevertOverrides() {
	o.mu.Lock()
	o.attrSchema.Reset()
	o.linkSchema.Reset()
	o.mu.Unlock()
}

// AttributeSchema returns the effective attribute schema with the layer
// each entry comes from.
func (o *Object) AttributeSchema() map[string]schema.Layer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]schema.Layer)
	for label := range o.attrSchema.Effective() {
		_, layer := o.attrSchema.Resolve(label)
		out[label] = layer
	}
	return out
}

// LinkageSchema returns the effective linkage schema.
func (o *Object) LinkageSchema() map[string]linkage.Rule {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.linkSchema.Effective()
}

func sortedLabels(m map[string]core.RawAttribute) []string {
	labels := make([]string, 0, len(m))
	for k := range m {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
