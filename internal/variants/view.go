package variants

import (
	"fmt"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

func value(o *object.Object, label string) core.Value {
	return o.Value(label)
}

func text(o *object.Object, label string) string {
	switch v := o.Value(label).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func texts(o *object.Object, label string) []string {
	values, _ := o.Value(label).([]core.Value)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func list(o *object.Object, label string) []core.Value {
	values, _ := o.Value(label).([]core.Value)
	if values == nil {
		return []core.Value{}
	}
	return values
}

func flag(o *object.Object, label string) bool {
	b, _ := o.Value(label).(bool)
	return b
}

// one returns the object a scalar reference resolved to, or nil.
func one(o *object.Object, label string) *object.Object {
	target, _ := o.Value(label).(*object.Object)
	return target
}

// many returns the objects a vector reference resolved to. Positions that
// did not resolve are nil.
func many(o *object.Object, label string) []*object.Object {
	values, ok := o.Value(label).([]any)
	if !ok {
		return []*object.Object{}
	}
	out := make([]*object.Object, len(values))
	for i, v := range values {
		out[i], _ = v.(*object.Object)
	}
	return out
}

// objectOr returns a resolved object or the literal the attribute holds.
func objectOr(o *object.Object, label string) (*object.Object, core.Value) {
	v := o.Value(label)
	if target, ok := v.(*object.Object); ok {
		return target, nil
	}
	if core.IsReference(v) {
		return nil, nil
	}
	return nil, v
}
