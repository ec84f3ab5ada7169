package core

import (
	"fmt"
	"sort"
)

// Value is a single primitive decoded from a record attribute.
//
// The decoder produces one of:
//   - int64, uint64, float64 for numeric representation codes
//   - bool for boolean-encoded integers (only when the decoder chose to)
//   - string for ASCII/IDENT/UNITS
//   - time.Time for DTIME
//   - ObjectName, ObjectRef for reference tokens
//   - MalformedRef for a reference the decoder could not parse
type Value = any

// ObjectName is a name-reference token (rp66 OBNAME). It carries no type;
// the expected target type comes from the linkage schema.
type ObjectName struct {
	Origin uint32
	Copy   uint8
	ID     string
}

// String renders the name as (origin, copy, id).
func (n ObjectName) String() string {
	return fmt.Sprintf("(%d, %d, %s)", n.Origin, n.Copy, n.ID)
}

// Fingerprint returns the fingerprint this name denotes for a record type.
func (n ObjectName) Fingerprint(recordType string) Fingerprint {
	return Fingerprint{Type: recordType, Origin: n.Origin, Copy: n.Copy, Name: n.ID}
}

// ObjectRef is a bare object reference token (rp66 OBJREF). It carries the
// target record type explicitly.
type ObjectRef struct {
	Type string
	Name ObjectName
}

// String renders the reference as (type, (origin, copy, id)).
func (r ObjectRef) String() string {
	return fmt.Sprintf("(%s, %s)", r.Type, r.Name)
}

// Fingerprint returns the fingerprint the reference points at.
func (r ObjectRef) Fingerprint() Fingerprint {
	return r.Name.Fingerprint(r.Type)
}

// MalformedRef marks a reference token the decoder recognised as a
// reference but could not parse into any known shape.
type MalformedRef struct {
	Raw    string
	Reason string
}

func (m MalformedRef) String() string {
	return fmt.Sprintf("malformed reference %q: %s", m.Raw, m.Reason)
}

// RawAttribute is one decoded attribute: an ordered list of values and an
// optional unit.
type RawAttribute struct {
	Values []Value
	Unit   string
}

// Clone returns a copy that does not share the values slice.
func (a RawAttribute) Clone() RawAttribute {
	values := make([]Value, len(a.Values))
	copy(values, a.Values)
	return RawAttribute{Values: values, Unit: a.Unit}
}

// Record is the decoder's output for a single object.
type Record struct {
	Type       string
	Name       ObjectName
	Attributes map[string]RawAttribute
}

// Fingerprint returns the record identity.
func (r Record) Fingerprint() Fingerprint {
	return r.Name.Fingerprint(r.Type)
}

// Labels returns the attribute labels in sorted order.
func (r Record) Labels() []string {
	labels := make([]string, 0, len(r.Attributes))
	for label := range r.Attributes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Clone deep-copies the record so later mutation by the caller cannot
// reach retained raw data.
func (r Record) Clone() Record {
	attrs := make(map[string]RawAttribute, len(r.Attributes))
	for label, attr := range r.Attributes {
		attrs[label] = attr.Clone()
	}
	return Record{Type: r.Type, Name: r.Name, Attributes: attrs}
}

// Validate checks that the record carries its identity fields.
func (r Record) Validate() error {
	if r.Type == "" {
		return &StructuralError{Op: "ingest", Fingerprint: r.Fingerprint(), Err: fmt.Errorf("%w: record type", ErrMissingIdentity)}
	}
	if r.Name.ID == "" {
		return &StructuralError{Op: "ingest", Type: r.Type, Fingerprint: r.Fingerprint(), Err: fmt.Errorf("%w: object name", ErrMissingIdentity)}
	}
	return nil
}

// IsReference reports whether v is any kind of reference token.
func IsReference(v Value) bool {
	switch v.(type) {
	case ObjectName, ObjectRef, MalformedRef:
		return true
	}
	return false
}
