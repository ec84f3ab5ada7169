// Package variants defines the built-in object variants for the rp66
// record types this module understands, and typed read-only views over
// objects built from them.
//
// DIMENSION, AXIS and ELEMENT-LIMIT are stored fastest-varying first on
// file, so they are coerced with valuetype.Reverse.
package variants

import (
	"sort"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
)

// Record types with a built-in variant.
const (
	FileHeaderType    = "FILE-HEADER"
	OriginType        = "ORIGIN"
	AxisType          = "AXIS"
	LongNameType      = "LONG-NAME"
	ChannelType       = "CHANNEL"
	FrameType         = "FRAME"
	ZoneType          = "ZONE"
	ParameterType     = "PARAMETER"
	EquipmentType     = "EQUIPMENT"
	ToolType          = "TOOL"
	MessageType       = "MESSAGE"
	CommentType       = "COMMENT"
	CalibrationType   = "CALIBRATION"
	MeasurementType   = "CALIBRATION-MEASUREMENT"
	CoefficientType   = "CALIBRATION-COEFFICIENT"
	ComputationType   = "COMPUTATION"
	ProcessType       = "PROCESS"
	SpliceType        = "SPLICE"
	WellReferenceType = "WELL-REFERENCE"
	GroupType         = "GROUP"
	PathType          = "PATH"
)

type attrs = map[string]valuetype.Coercer
type links = map[string]linkage.Rule

var (
	scalar  = valuetype.Scalar
	vector  = valuetype.Vector
	boolean = valuetype.Boolean
	reverse = valuetype.Reverse
)

var constructors = map[string]func() *object.Variant{
	FileHeaderType:    fileHeader,
	OriginType:        origin,
	AxisType:          axis,
	LongNameType:      longName,
	ChannelType:       channel,
	FrameType:         frame,
	ZoneType:          zone,
	ParameterType:     parameter,
	EquipmentType:     equipment,
	ToolType:          tool,
	MessageType:       message,
	CommentType:       comment,
	CalibrationType:   calibration,
	MeasurementType:   measurement,
	CoefficientType:   coefficient,
	ComputationType:   computation,
	ProcessType:       process,
	SpliceType:        splice,
	WellReferenceType: wellReference,
	GroupType:         group,
	PathType:          path,
}

// Builtin returns fresh copies of every built-in variant, keyed by the
// record type each one parses. Overrides on the returned variants never
// reach another call's copies.
func Builtin() map[string]*object.Variant {
	out := make(map[string]*object.Variant, len(constructors))
	for name, build := range constructors {
		out[name] = build()
	}
	return out
}

// New returns a fresh copy of the built-in variant name.
func New(name string) (*object.Variant, bool) {
	build, ok := constructors[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// Names returns the built-in variant names, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
