package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

// Apply installs the configured bindings ("unknown" unbinds) and the
// variant-global schema overrides into reg. Bindings go first so overrides
// may target a variant that was only just bound. Entries are applied in
// sorted order.
func (c *Config) Apply(reg *registry.Registry) error {
	for _, recordType := range sortedKeys(c.Types) {
		name := strings.TrimSpace(c.Types[recordType])
		if err := reg.BindName(recordType, name); err != nil {
			return fmt.Errorf("types.%s: %w", recordType, err)
		}
	}

	for _, name := range sortedKeys(c.Attributes) {
		v, err := reg.Variant(name)
		if err != nil {
			return fmt.Errorf("attributes.%s: %w", name, err)
		}
		labels := c.Attributes[name]
		for _, label := range sortedKeys(labels) {
			tag := labels[label]
			switch {
			case tag.Masked:
				v.Attributes.Mask(label)
			case tag.Coercer != nil:
				v.Attributes.Set(label, tag.Coercer)
			default:
				return fmt.Errorf("attributes.%s.%s: value type is required", name, label)
			}
		}
	}

	for _, name := range sortedKeys(c.Linkage) {
		v, err := reg.Variant(name)
		if err != nil {
			return fmt.Errorf("linkage.%s: %w", name, err)
		}
		labels := c.Linkage[name]
		for _, label := range sortedKeys(labels) {
			rule := labels[label].Rule
			switch rule {
			case nil:
				return fmt.Errorf("linkage.%s.%s: linkage is required", name, label)
			case linkage.None:
				v.Linkage.Mask(label)
			default:
				v.Linkage.Set(label, rule)
			}
		}
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
