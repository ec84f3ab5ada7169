// Package linkage describes how a reference-typed attribute value is turned
// into the fingerprint of the object it points at.
package linkage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

var (
	// ErrShape is returned when the on-file token does not have the shape
	// the rule expects (name-reference vs. bare object reference, or no
	// reference at all). Recoverable.
	ErrShape = errors.New("Unable to create object-reference")
	// ErrLiteral is returned by literal-tolerant rules for non-reference
	// values, which are kept as they are.
	ErrLiteral = errors.New("value is a literal")
)

// Rule resolves one raw reference value into a candidate fingerprint.
type Rule interface {
	// Fingerprint returns the target fingerprint for v, or ErrShape,
	// ErrLiteral, or an error wrapping core.ErrMalformedReference.
	Fingerprint(v core.Value) (core.Fingerprint, error)
	// String returns the rule tag, as accepted by Parse.
	String() string
}

// Obname resolves name-references; the target type comes from the schema.
func Obname(recordType string) Rule {
	return obname{recordType: recordType}
}

// Objref resolves bare object references that carry their own type.
var Objref Rule = objref{}

// ObnameOrLiteral resolves name-references like Obname but keeps
// non-reference values, for attributes that hold either a value or a
// pointer to the object producing it.
func ObnameOrLiteral(recordType string) Rule {
	return obnameOrLiteral{recordType: recordType}
}

// None marks a label as not linked. Config uses it to mask a linkage entry.
var None Rule = none{}

type obname struct {
	recordType string
}

func (r obname) Fingerprint(v core.Value) (core.Fingerprint, error) {
	switch x := v.(type) {
	case core.ObjectName:
		return x.Fingerprint(r.recordType), nil
	case core.MalformedRef:
		return core.Fingerprint{}, malformed(x)
	default:
		return core.Fingerprint{}, shapeError(r, v)
	}
}

func (r obname) String() string { return "obname:" + r.recordType }

type objref struct{}

func (r objref) Fingerprint(v core.Value) (core.Fingerprint, error) {
	switch x := v.(type) {
	case core.ObjectRef:
		if x.Type == "" {
			return core.Fingerprint{}, fmt.Errorf("%w: object reference without type", ErrShape)
		}
		return x.Fingerprint(), nil
	case core.MalformedRef:
		return core.Fingerprint{}, malformed(x)
	default:
		return core.Fingerprint{}, shapeError(r, v)
	}
}

func (objref) String() string { return "objref" }

type obnameOrLiteral struct {
	recordType string
}

func (r obnameOrLiteral) Fingerprint(v core.Value) (core.Fingerprint, error) {
	switch x := v.(type) {
	case core.ObjectName:
		return x.Fingerprint(r.recordType), nil
	case core.MalformedRef:
		return core.Fingerprint{}, malformed(x)
	case core.ObjectRef:
		return core.Fingerprint{}, shapeError(r, v)
	default:
		return core.Fingerprint{}, ErrLiteral
	}
}

func (r obnameOrLiteral) String() string { return "obname-or-literal:" + r.recordType }

type none struct{}

func (none) Fingerprint(core.Value) (core.Fingerprint, error) { return core.Fingerprint{}, ErrLiteral }
func (none) String() string                                  { return "none" }

func shapeError(r Rule, v core.Value) error {
	return fmt.Errorf("%w: %s expects a different token than %T", ErrShape, r, v)
}

func malformed(m core.MalformedRef) error {
	return fmt.Errorf("%w: %s", core.ErrMalformedReference, m.Reason)
}

// Parse resolves a linkage tag: objref, obname:<TYPE>,
// obname-or-literal:<TYPE> or none.
func Parse(tag string) (Rule, error) {
	tag = strings.TrimSpace(tag)
	switch strings.ToLower(tag) {
	case "objref":
		return Objref, nil
	case "none":
		return None, nil
	}
	if t, ok := strings.CutPrefix(tag, "obname-or-literal:"); ok && t != "" {
		return ObnameOrLiteral(t), nil
	}
	if t, ok := strings.CutPrefix(tag, "obname:"); ok && t != "" {
		return Obname(t), nil
	}
	return nil, fmt.Errorf("unknown linkage %q", tag)
}
