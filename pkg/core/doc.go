// Package core defines the shared language of the dlisgraph system.
//
// This package contains:
//   - Record identity (Fingerprint, ObjectName, ObjectRef)
//   - Raw decoder output (Record, RawAttribute, Value)
//   - Structural error types shared by every load pass
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
