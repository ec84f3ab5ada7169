package variants

import (
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/sampling"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

func zone() *object.Variant {
	return object.NewVariant(ZoneType, attrs{
		"DESCRIPTION": scalar,
		"DOMAIN":      scalar,
		"MAXIMUM":     scalar,
		"MINIMUM":     scalar,
	}, nil)
}

// Zone is an interval along depth, time or vertical depth.
type Zone struct{ *object.Object }

func (z Zone) Description() string { return text(z.Object, "DESCRIPTION") }
func (z Zone) Domain() string      { return text(z.Object, "DOMAIN") }
func (z Zone) Maximum() core.Value { return value(z.Object, "MAXIMUM") }
func (z Zone) Minimum() core.Value { return value(z.Object, "MINIMUM") }

func parameter() *object.Variant {
	return object.NewVariant(ParameterType, attrs{
		"LONG-NAME": scalar,
		"DIMENSION": reverse,
		"AXIS":      reverse,
		"ZONES":     vector,
		"VALUES":    vector,
	}, links{
		"LONG-NAME": linkage.ObnameOrLiteral(LongNameType),
		"AXIS":      linkage.Obname(AxisType),
		"ZONES":     linkage.Obname(ZoneType),
	})
}

// Parameter is a static value, possibly zoned.
type Parameter struct{ *object.Object }

// LongName returns the linked LONG-NAME object, or nil with the literal
// description.
func (p Parameter) LongName() (*object.Object, string) {
	target, lit := objectOr(p.Object, "LONG-NAME")
	s, _ := lit.(string)
	return target, s
}

func (p Parameter) Dimension() []core.Value { return list(p.Object, "DIMENSION") }
func (p Parameter) Axis() []*object.Object  { return many(p.Object, "AXIS") }
func (p Parameter) Zones() []*object.Object { return many(p.Object, "ZONES") }

// Values returns one sample per zone, shaped by the dimension.
func (p Parameter) Values() ([]any, error) {
	return zonedValues(p.Object)
}

func zonedValues(o *object.Object) ([]any, error) {
	dims, err := sampling.Dims(o.Value("DIMENSION"))
	if err != nil {
		return nil, err
	}
	values := list(o, "VALUES")
	zones := len(o.Attic()["ZONES"].Values)
	shape, err := sampling.ShapeWithFallback(values, dims, zones)
	if err != nil {
		return nil, err
	}
	return sampling.Split(values, shape)
}

func computation() *object.Variant {
	return object.NewVariant(ComputationType, attrs{
		"LONG-NAME":  scalar,
		"PROPERTIES": vector,
		"DIMENSION":  reverse,
		"AXIS":       reverse,
		"ZONES":      vector,
		"VALUES":     vector,
		"SOURCE":     scalar,
	}, links{
		"LONG-NAME": linkage.ObnameOrLiteral(LongNameType),
		"AXIS":      linkage.Obname(AxisType),
		"ZONES":     linkage.Obname(ZoneType),
		"SOURCE":    linkage.Objref,
	})
}

// Computation is the zoned result of a process.
type Computation struct{ *object.Object }

// LongName returns the linked LONG-NAME object, or nil with the literal
// description.
func (c Computation) LongName() (*object.Object, string) {
	target, lit := objectOr(c.Object, "LONG-NAME")
	s, _ := lit.(string)
	return target, s
}

func (c Computation) Properties() []string    { return texts(c.Object, "PROPERTIES") }
func (c Computation) Dimension() []core.Value { return list(c.Object, "DIMENSION") }
func (c Computation) Axis() []*object.Object  { return many(c.Object, "AXIS") }
func (c Computation) Zones() []*object.Object { return many(c.Object, "ZONES") }
func (c Computation) Source() *object.Object  { return one(c.Object, "SOURCE") }

// Values returns one sample per zone, shaped by the dimension.
func (c Computation) Values() ([]any, error) {
	return zonedValues(c.Object)
}

func equipment() *object.Variant {
	return object.NewVariant(EquipmentType, attrs{
		"TRADEMARK-NAME":   scalar,
		"STATUS":           boolean,
		"GENERIC-TYPE":     scalar,
		"SERIAL-NUMBER":    scalar,
		"LOCATION":         scalar,
		"HEIGHT":           scalar,
		"LENGTH":           scalar,
		"MINIMUM-DIAMETER": scalar,
		"MAXIMUM-DIAMETER": scalar,
		"VOLUME":           scalar,
		"WEIGHT":           scalar,
		"HOLE-SIZE":        scalar,
		"PRESSURE":         scalar,
		"TEMPERATURE":      scalar,
		"VERTICAL-DEPTH":   scalar,
		"RADIAL-DRIFT":     scalar,
		"ANGULAR-DRIFT":    scalar,
	}, nil)
}

// Equipment is a physical piece of equipment.
type Equipment struct{ *object.Object }

func (e Equipment) TrademarkName() string     { return text(e.Object, "TRADEMARK-NAME") }
func (e Equipment) Status() bool              { return flag(e.Object, "STATUS") }
func (e Equipment) GenericType() string       { return text(e.Object, "GENERIC-TYPE") }
func (e Equipment) SerialNumber() string      { return text(e.Object, "SERIAL-NUMBER") }
func (e Equipment) Location() string          { return text(e.Object, "LOCATION") }
func (e Equipment) Height() core.Value        { return value(e.Object, "HEIGHT") }
func (e Equipment) Length() core.Value        { return value(e.Object, "LENGTH") }
func (e Equipment) DiameterMin() core.Value   { return value(e.Object, "MINIMUM-DIAMETER") }
func (e Equipment) DiameterMax() core.Value   { return value(e.Object, "MAXIMUM-DIAMETER") }
func (e Equipment) Volume() core.Value        { return value(e.Object, "VOLUME") }
func (e Equipment) Weight() core.Value        { return value(e.Object, "WEIGHT") }
func (e Equipment) HoleSize() core.Value      { return value(e.Object, "HOLE-SIZE") }
func (e Equipment) Pressure() core.Value      { return value(e.Object, "PRESSURE") }
func (e Equipment) Temperature() core.Value   { return value(e.Object, "TEMPERATURE") }
func (e Equipment) VerticalDepth() core.Value { return value(e.Object, "VERTICAL-DEPTH") }
func (e Equipment) RadialDrift() core.Value   { return value(e.Object, "RADIAL-DRIFT") }
func (e Equipment) AngularDrift() core.Value  { return value(e.Object, "ANGULAR-DRIFT") }

func tool() *object.Variant {
	return object.NewVariant(ToolType, attrs{
		"DESCRIPTION":    scalar,
		"TRADEMARK-NAME": scalar,
		"GENERIC-NAME":   scalar,
		"PARTS":          vector,
		"STATUS":         boolean,
		"CHANNELS":       vector,
		"PARAMETERS":     vector,
	}, links{
		"PARTS":      linkage.Obname(EquipmentType),
		"CHANNELS":   linkage.Obname(ChannelType),
		"PARAMETERS": linkage.Obname(ParameterType),
	})
}

// Tool is an aggregate of equipment producing channels.
type Tool struct{ *object.Object }

func (t Tool) Description() string          { return text(t.Object, "DESCRIPTION") }
func (t Tool) TrademarkName() string        { return text(t.Object, "TRADEMARK-NAME") }
func (t Tool) GenericName() string          { return text(t.Object, "GENERIC-NAME") }
func (t Tool) Parts() []*object.Object      { return many(t.Object, "PARTS") }
func (t Tool) Status() bool                 { return flag(t.Object, "STATUS") }
func (t Tool) Channels() []*object.Object   { return many(t.Object, "CHANNELS") }
func (t Tool) Parameters() []*object.Object { return many(t.Object, "PARAMETERS") }

func process() *object.Variant {
	return object.NewVariant(ProcessType, attrs{
		"DESCRIPTION":         scalar,
		"TRADEMARK-NAME":      scalar,
		"VERSION":             scalar,
		"PROPERTIES":          vector,
		"STATUS":              scalar,
		"INPUT-CHANNELS":      vector,
		"OUTPUT-CHANNELS":     vector,
		"INPUT-COMPUTATIONS":  vector,
		"OUTPUT-COMPUTATIONS": vector,
		"PARAMETERS":          vector,
		"COMMENTS":            vector,
	}, links{
		"INPUT-CHANNELS":      linkage.Obname(ChannelType),
		"OUTPUT-CHANNELS":     linkage.Obname(ChannelType),
		"INPUT-COMPUTATIONS":  linkage.Obname(ComputationType),
		"OUTPUT-COMPUTATIONS": linkage.Obname(ComputationType),
		"PARAMETERS":          linkage.Obname(ParameterType),
	})
}

// Process describes a processing step and its inputs and outputs.
type Process struct{ *object.Object }

func (p Process) Description() string                  { return text(p.Object, "DESCRIPTION") }
func (p Process) TrademarkName() string                { return text(p.Object, "TRADEMARK-NAME") }
func (p Process) Version() string                      { return text(p.Object, "VERSION") }
func (p Process) Properties() []string                 { return texts(p.Object, "PROPERTIES") }
func (p Process) Status() string                       { return text(p.Object, "STATUS") }
func (p Process) InputChannels() []*object.Object      { return many(p.Object, "INPUT-CHANNELS") }
func (p Process) OutputChannels() []*object.Object     { return many(p.Object, "OUTPUT-CHANNELS") }
func (p Process) InputComputations() []*object.Object  { return many(p.Object, "INPUT-COMPUTATIONS") }
func (p Process) OutputComputations() []*object.Object { return many(p.Object, "OUTPUT-COMPUTATIONS") }
func (p Process) Parameters() []*object.Object         { return many(p.Object, "PARAMETERS") }
func (p Process) Comments() []string                   { return texts(p.Object, "COMMENTS") }
