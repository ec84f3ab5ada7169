// Package valuetype provides the value coercers that turn a raw attribute
// value list into a typed field value.
//
// Coercers are pure. A cardinality mismatch never discards the attribute:
// the coercer returns its best-effort value together with a warning message,
// and the caller decides how to report it.
package valuetype

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// Coercer turns raw values into a field value.
type Coercer interface {
	// Coerce returns the field value and a non-empty warning when the raw
	// values did not have the expected shape.
	Coerce(values []core.Value) (any, string)
	// Zero is the field value for a schema label absent from the attic.
	Zero() any
	// String returns the coercer tag, as accepted by Parse.
	String() string
}

var (
	// Scalar takes the first value.
	Scalar Coercer = scalar{}
	// Vector takes all values in order.
	Vector Coercer = vector{}
	// Boolean takes the first value as a non-zero test.
	Boolean Coercer = boolean{}
	// Reverse takes all values in reverse order.
	Reverse Coercer = reverse{}
)

// CardinalityWarning is the message emitted when a single-valued attribute
// holds more than one value.
func CardinalityWarning(n int) string {
	return fmt.Sprintf("Expected only 1 value, found %d", n)
}

type scalar struct{}

func (scalar) Coerce(values []core.Value) (any, string) {
	switch len(values) {
	case 0:
		return nil, ""
	case 1:
		return values[0], ""
	default:
		return values[0], CardinalityWarning(len(values))
	}
}

func (scalar) Zero() any      { return nil }
func (scalar) String() string { return "scalar" }

type vector struct{}

func (vector) Coerce(values []core.Value) (any, string) {
	out := make([]core.Value, len(values))
	copy(out, values)
	return out, ""
}

func (vector) Zero() any      { return []core.Value{} }
func (vector) String() string { return "vector" }

type boolean struct{}

func (boolean) Coerce(values []core.Value) (any, string) {
	if len(values) == 0 {
		return nil, ""
	}
	var warn string
	if len(values) != 1 {
		warn = CardinalityWarning(len(values))
	}
	return Truthy(values[0]), warn
}

func (boolean) Zero() any      { return nil }
func (boolean) String() string { return "boolean" }

type reverse struct{}

func (reverse) Coerce(values []core.Value) (any, string) {
	out := make([]core.Value, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out, ""
}

func (reverse) Zero() any      { return []core.Value{} }
func (reverse) String() string { return "reverse" }

type constant struct {
	lit any
}

// Default returns a coercer that ignores the raw values and always yields
// lit. Use it to pin a field to a constant.
func Default(lit any) Coercer {
	return constant{lit: lit}
}

func (c constant) Coerce([]core.Value) (any, string) { return c.lit, "" }
func (c constant) Zero() any                         { return c.lit }
func (c constant) String() string                    { return fmt.Sprintf("default:%v", c.lit) }

// Truthy reports whether a boolean-encoded value is true. Numbers of any
// width are true when non-zero; strings are true when non-empty.
func Truthy(v core.Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	}
	return true
}

// Parse resolves a coercer tag: scalar, vector, boolean, reverse or
// default:<literal>. Integer and float literals are typed; anything else is
// kept as a string.
func Parse(tag string) (Coercer, error) {
	tag = strings.TrimSpace(tag)
	switch strings.ToLower(tag) {
	case "scalar":
		return Scalar, nil
	case "vector":
		return Vector, nil
	case "boolean", "bool":
		return Boolean, nil
	case "reverse":
		return Reverse, nil
	}
	if lit, ok := strings.CutPrefix(tag, "default:"); ok {
		return Default(parseLiteral(lit)), nil
	}
	return nil, fmt.Errorf("unknown value type %q", tag)
}

func parseLiteral(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
