// Package schema provides the layered label tables behind attribute and
// linkage schemas.
//
// A Table holds a variant's built-in defaults plus a variant-global override
// layer. A Local chains an instance-local override layer on top of a Table.
// Lookups resolve instance-local, then variant-global, then built-in default;
// a masked label is absent from the effective schema. The result depends
// only on the layers' contents, never on the order mutations were made.
package schema

import (
	"sort"
	"sync"
)

// Layer identifies where an effective entry came from.
type Layer int

// Layers, most specific first.
const (
	LayerNone Layer = iota
	LayerLocal
	LayerGlobal
	LayerDefault
)

func (l Layer) String() string {
	switch l {
	case LayerLocal:
		return "local"
	case LayerGlobal:
		return "global"
	case LayerDefault:
		return "default"
	default:
		return "none"
	}
}

type entry[T any] struct {
	value  T
	masked bool
}

// Table is a variant-global table: built-in defaults plus overrides.
// It is safe for concurrent use.
type Table[T any] struct {
	mu        sync.RWMutex
	defaults  map[string]T
	overrides map[string]entry[T]
}

// NewTable returns a table with the given built-in defaults. The map is
// copied.
func NewTable[T any](defaults map[string]T) *Table[T] {
	d := make(map[string]T, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &Table[T]{defaults: d, overrides: make(map[string]entry[T])}
}

// Set overrides label variant-wide.
func (t *Table[T]) Set(label string, v T) {
	t.mu.Lock()
	t.overrides[label] = entry[T]{value: v}
	t.mu.Unlock()
}

// Mask removes label from the effective table variant-wide.
func (t *Table[T]) Mask(label string) {
	t.mu.Lock()
	t.overrides[label] = entry[T]{masked: true}
	t.mu.Unlock()
}

// Revert drops the override for label, restoring the built-in default.
func (t *Table[T]) Revert(label string) {
	t.mu.Lock()
	delete(t.overrides, label)
	t.mu.Unlock()
}

// Reset drops every override.
func (t *Table[T]) Reset() {
	t.mu.Lock()
	t.overrides = make(map[string]entry[T])
	t.mu.Unlock()
}

// Lookup returns the effective entry for label.
func (t *Table[T]) Lookup(label string) (T, bool) {
	v, layer := t.lookup(label)
	return v, layer != LayerNone
}

func (t *Table[T]) lookup(label string) (T, Layer) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e, ok := t.overrides[label]; ok {
		if e.masked {
			var zero T
			return zero, LayerNone
		}
		return e.value, LayerGlobal
	}
	if v, ok := t.defaults[label]; ok {
		return v, LayerDefault
	}
	var zero T
	return zero, LayerNone
}

// Effective returns a snapshot of the effective table.
func (t *Table[T]) Effective() map[string]T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]T, len(t.defaults)+len(t.overrides))
	for k, v := range t.defaults {
		out[k] = v
	}
	for k, e := range t.overrides {
		if e.masked {
			delete(out, k)
			continue
		}
		out[k] = e.value
	}
	return out
}

// Defaults returns a copy of the built-in defaults.
func (t *Table[T]) Defaults() map[string]T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]T, len(t.defaults))
	for k, v := range t.defaults {
		out[k] = v
	}
	return out
}

// Overridden reports whether label carries a variant-global override.
func (t *Table[T]) Overridden(label string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.overrides[label]
	return ok
}

// Labels returns the effective labels, sorted.
func (t *Table[T]) Labels() []string {
	return sortedKeys(t.Effective())
}

// Local is an instance-local override layer chained to a Table. It is not
// safe for concurrent use; the owning object guards it.
type Local[T any] struct {
	parent    *Table[T]
	overrides map[string]entry[T]
	replaced  map[string]T
}

// NewLocal returns an empty local layer over parent.
func NewLocal[T any](parent *Table[T]) *Local[T] {
	return &Local[T]{parent: parent, overrides: make(map[string]entry[T])}
}

// Set overrides label for this instance only.
func (l *Local[T]) Set(label string, v T) {
	l.overrides[label] = entry[T]{value: v}
}

// Mask removes label from this instance's effective table.
func (l *Local[T]) Mask(label string) {
	l.overrides[label] = entry[T]{masked: true}
}

// Revert drops the instance override for label.
func (l *Local[T]) Revert(label string) {
	delete(l.overrides, label)
}

// Replace swaps the whole table for this instance. Labels not in m are
// absent unless set afterwards. A nil m undoes a previous Replace.
func (l *Local[T]) Replace(m map[string]T) {
	if m == nil {
		l.replaced = nil
		return
	}
	l.replaced = make(map[string]T, len(m))
	for k, v := range m {
		l.replaced[k] = v
	}
}

// Reset drops every instance override, including a replacement table.
func (l *Local[T]) Reset() {
	l.overrides = make(map[string]entry[T])
	l.replaced = nil
}

// Dirty reports whether the instance carries any override.
func (l *Local[T]) Dirty() bool {
	return len(l.overrides) > 0 || l.replaced != nil
}

// Lookup returns the effective entry for label.
func (l *Local[T]) Lookup(label string) (T, bool) {
	v, layer := l.Resolve(label)
	return v, layer != LayerNone
}

// Resolve returns the effective entry for label and the layer it came from.
func (l *Local[T]) Resolve(label string) (T, Layer) {
	if e, ok := l.overrides[label]; ok {
		if e.masked {
			var zero T
			return zero, LayerNone
		}
		return e.value, LayerLocal
	}
	if l.replaced != nil {
		if v, ok := l.replaced[label]; ok {
			return v, LayerLocal
		}
		var zero T
		return zero, LayerNone
	}
	return l.parent.lookup(label)
}

// Effective returns a snapshot of the effective table for this instance.
func (l *Local[T]) Effective() map[string]T {
	var out map[string]T
	if l.replaced != nil {
		out = make(map[string]T, len(l.replaced))
		for k, v := range l.replaced {
			out[k] = v
		}
	} else {
		out = l.parent.Effective()
	}
	for k, e := range l.overrides {
		if e.masked {
			delete(out, k)
			continue
		}
		out[k] = e.value
	}
	return out
}

// Labels returns the effective labels for this instance, sorted.
func (l *Local[T]) Labels() []string {
	return sortedKeys(l.Effective())
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
