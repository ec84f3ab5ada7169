package diag

import (
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/testutil"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Report(t *testing.T) {
	rec := testutil.NewRecorder(t)
	c := NewCollector(rec.Logger())

	fp := core.Fingerprint{Type: "CHANNEL", Origin: 10, Name: "CHANN1"}
	c.Warn(CodeCardinality, fp, "LONG-NAME", "Expected only 1 value, found 2")
	c.Report(Diagnostic{Severity: SeverityInfo, Code: CodeUnknownType, Type: "UNKNOWN_SET", Message: "no variant bound"})

	require.Equal(t, 2, c.Len())
	assert.Len(t, c.Warnings(), 1)
	assert.Equal(t, "CHANNEL", c.Warnings()[0].Type)

	assert.True(t, rec.Contains("Expected only 1 value"))
	assert.Equal(t, 1, rec.CountLevel("WARN"))
}

func TestCollector_ByCodeAndCounts(t *testing.T) {
	c := NewCollector(nil)
	fp := core.Fingerprint{Type: "FRAME", Name: "MAINFRAME"}
	c.Warn(CodeLinkedObject, fp, "CHANNELS", "Unable to find linked object")
	c.Warn(CodeLinkedObject, fp, "INDEX-TYPE", "Unable to find linked object")
	c.Warn(CodeObjectRef, fp, "CHANNELS", "Unable to create object-reference")

	assert.Len(t, c.ByCode(CodeLinkedObject), 2)
	assert.Equal(t, map[Code]int{CodeLinkedObject: 2, CodeObjectRef: 1}, c.Counts())
	assert.Equal(t, []Code{CodeLinkedObject, CodeObjectRef}, c.Codes())
}

func TestCollector_Merge(t *testing.T) {
	a := NewCollector(nil)
	b := NewCollector(nil)
	b.Warn(CodeDuplicate, core.Fingerprint{Type: "CHANNEL", Name: "X"}, "", "duplicate fingerprint")

	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, 1, a.Len())

	// Merged items are copies.
	b.Warn(CodeDuplicate, core.Fingerprint{Type: "CHANNEL", Name: "Y"}, "", "duplicate fingerprint")
	assert.Equal(t, 1, a.Len())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:    SeverityWarning,
		Message:     "Unable to find linked object",
		Fingerprint: core.Fingerprint{Type: "CHANNEL", Origin: 10, Name: "CHANN1"},
		Label:       "SOURCE",
	}
	assert.Equal(t, "warning: T.CHANNEL-I.CHANN1-O.10-C.0.SOURCE: Unable to find linked object", d.String())

	d = Diagnostic{Severity: SeverityInfo, Type: "UNKNOWN_SET", Message: "no variant"}
	assert.Equal(t, "info: UNKNOWN_SET: no variant", d.String())
}
