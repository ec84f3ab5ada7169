package object

import (
	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/schema"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
)

// UnknownName is the variant name of the fallback for unbound record types.
const UnknownName = "unknown"

// Factory builds an object of a variant from a raw record.
type Factory func(v *Variant, rec core.Record, r diag.Reporter) *Object

// Variant describes a typed object shape: attribute schema, linkage schema
// and factory. Its tables are the variant-global layer shared by every
// object built from it.
type Variant struct {
	Name       string
	Attributes *schema.Table[valuetype.Coercer]
	Linkage    *schema.Table[linkage.Rule]
	Factory    Factory
}

// NewVariant returns a variant with the given built-in tables and the
// default factory.
func NewVariant(name string, attrs map[string]valuetype.Coercer, links map[string]linkage.Rule) *Variant {
	return &Variant{
		Name:       name,
		Attributes: schema.NewTable(attrs),
		Linkage:    schema.NewTable(links),
	}
}

// NewUnknown returns the fallback variant: empty schemas, so every label
// lands in the stash.
func NewUnknown() *Variant {
	return NewVariant(UnknownName, nil, nil)
}

// Build constructs an object of this variant from rec.
func (v *Variant) Build(rec core.Record, r diag.Reporter) *Object {
	if v.Factory != nil {
		return v.Factory(v, rec, r)
	}
	return New(v, rec, r)
}

// IsUnknown reports whether v is the fallback variant.
func (v *Variant) IsUnknown() bool {
	return v != nil && v.Name == UnknownName
}

// ResetOverrides drops every variant-global override.
func (v *Variant) ResetOverrides() {
	v.Attributes.Reset()
	v.Linkage.Reset()
}
