package core

import (
	"fmt"
	"strings"
)

// Fingerprint is the four-part identity of a record, unique across a load.
// It is comparable and used directly as a map key.
type Fingerprint struct {
	Type   string
	Origin uint32
	Copy   uint8
	Name   string
}

// String renders the fingerprint as T.<type>-I.<name>-O.<origin>-C.<copy>.
func (f Fingerprint) String() string {
	return fmt.Sprintf("T.%s-I.%s-O.%d-C.%d", f.Type, f.Name, f.Origin, f.Copy)
}

// ObjectName returns the untyped part of the fingerprint.
func (f Fingerprint) ObjectName() ObjectName {
	return ObjectName{Origin: f.Origin, Copy: f.Copy, ID: f.Name}
}

// Less orders fingerprints by type, name, origin, copy.
func (f Fingerprint) Less(o Fingerprint) bool {
	if c := strings.Compare(f.Type, o.Type); c != 0 {
		return c < 0
	}
	if c := strings.Compare(f.Name, o.Name); c != 0 {
		return c < 0
	}
	if f.Origin != o.Origin {
		return f.Origin < o.Origin
	}
	return f.Copy < o.Copy
}
