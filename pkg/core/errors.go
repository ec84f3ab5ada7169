package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingIdentity is returned when a raw record lacks its type or name.
	ErrMissingIdentity = errors.New("record is missing identity field")
	// ErrMalformedReference is returned when a reference token has no
	// recognisable shape at all.
	ErrMalformedReference = errors.New("malformed reference token")
)

// StructuralError aborts a load or link pass. It carries enough context to
// find the offending record and attribute.
type StructuralError struct {
	Op          string // "ingest", "build", "link"
	Type        string
	Fingerprint Fingerprint
	Label       string
	Err         error
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.Fingerprint != (Fingerprint{}) {
		fmt.Fprintf(&b, " for %s", e.Fingerprint)
	} else if e.Type != "" {
		fmt.Fprintf(&b, " for type %s", e.Type)
	}
	if e.Label != "" {
		fmt.Fprintf(&b, " at %s", e.Label)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StructuralError) Unwrap() error { return e.Err }

// IsStructural reports whether err aborted a pass.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
