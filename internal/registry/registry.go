// Package registry maps record-type names to the object variant that parses
// them. A registry is owned by one load session; binding changes take effect
// on the session's next load or reload and never touch objects already built.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/variants"
)

// ErrNilVariant is returned when binding a record type to a nil variant.
var ErrNilVariant = errors.New("variant is nil")

// UnknownVariantError is returned when a variant is requested by a name the
// registry does not know.
type UnknownVariantError struct {
	Name      string
	Available []string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q\nAvailable variants: %v\nHint: Check the types section of dlisgraph.yaml", e.Name, e.Available)
}

// Binding is one record-type to variant mapping.
type Binding struct {
	RecordType string
	Variant    string
	Builtin    bool
}

// Registry maps record types to variants. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// bindings maps record types to variants: "CHANNEL" → channel variant
	bindings map[string]*object.Variant

	// builtins holds the bindings the registry started with, for Revert
	builtins map[string]*object.Variant

	// known maps variant names to variants, so a record type can be bound
	// to a variant by name: "CHANNEL" → channel variant
	known map[string]*object.Variant

	unknown *object.Variant
}

// New creates a registry with no bindings. Every record type resolves to
// the unknown variant.
func New() *Registry {
	return &Registry{
		bindings: make(map[string]*object.Variant),
		builtins: make(map[string]*object.Variant),
		known:    make(map[string]*object.Variant),
		unknown:  object.NewUnknown(),
	}
}

// NewDefault creates a registry bound to fresh copies of the built-in
// variants.
func NewDefault() *Registry {
	r := New()
	for recordType, v := range variants.Builtin() {
		r.bindings[recordType] = v
		r.builtins[recordType] = v
		r.known[v.Name] = v
	}
	return r
}

// Bind maps recordType to v, replacing any previous binding.
func (r *Registry) Bind(recordType string, v *object.Variant) error {
	if recordType == "" {
		return errors.New("record type is empty")
	}
	if v == nil {
		return fmt.Errorf("bind %s: %w", recordType, ErrNilVariant)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[recordType] = v
	if _, ok := r.known[v.Name]; !ok {
		r.known[v.Name] = v
	}
	return nil
}

// BindName maps recordType to the known variant called name. The name
// "unknown" unbinds.
func (r *Registry) BindName(recordType, name string) error {
	if name == object.UnknownName {
		r.Unbind(recordType)
		return nil
	}
	v, err := r.Variant(name)
	if err != nil {
		return err
	}
	return r.Bind(recordType, v)
}

// Unbind removes the binding for recordType. Its records resolve to the
// unknown variant from the next load on.
func (r *Registry) Unbind(recordType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, recordType)
}

// Lookup returns the variant bound to recordType.
func (r *Registry) Lookup(recordType string) (*object.Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.bindings[recordType]
	return v, ok
}

// Resolve returns the variant bound to recordType, or the unknown variant.
func (r *Registry) Resolve(recordType string) *object.Variant {
	if v, ok := r.Lookup(recordType); ok {
		return v
	}
	return r.unknown
}

// Unknown returns the registry's fallback variant.
func (r *Registry) Unknown() *object.Variant {
	return r.unknown
}

// Revert restores the built-in binding for recordType, or removes the
// binding when there is none.
func (r *Registry) Revert(recordType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.builtins[recordType]; ok {
		r.bindings[recordType] = v
		return
	}
	delete(r.bindings, recordType)
}

// Reset restores every built-in binding and drops every variant-global
// schema override.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[string]*object.Variant, len(r.builtins))
	for recordType, v := range r.builtins {
		r.bindings[recordType] = v
	}
	for _, v := range r.known {
		v.ResetOverrides()
	}
	r.unknown.ResetOverrides()
}

// Variant returns the known variant called name.
func (r *Registry) Variant(name string) (*object.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == object.UnknownName {
		return r.unknown, nil
	}
	if v, ok := r.known[name]; ok {
		return v, nil
	}
	available := make([]string, 0, len(r.known))
	for n := range r.known {
		available = append(available, n)
	}
	sort.Strings(available)
	return nil, &UnknownVariantError{Name: name, Available: available}
}

// Bindings returns all bindings sorted by record type.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.bindings))
	for recordType, v := range r.bindings {
		out = append(out, Binding{
			RecordType: recordType,
			Variant:    v.Name,
			Builtin:    r.builtins[recordType] == v,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordType < out[j].RecordType })
	return out
}

// Count returns the number of bound record types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
