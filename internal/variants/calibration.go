package variants

import (
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/sampling"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

func calibration() *object.Variant {
	return object.NewVariant(CalibrationType, attrs{
		"CALIBRATED-CHANNELS":   vector,
		"UNCALIBRATED-CHANNELS": vector,
		"COEFFICIENTS":          vector,
		"MEASUREMENTS":          vector,
		"PARAMETERS":            vector,
		"METHOD":                scalar,
	}, links{
		"CALIBRATED-CHANNELS":   linkage.Obname(ChannelType),
		"UNCALIBRATED-CHANNELS": linkage.Obname(ChannelType),
		"COEFFICIENTS":          linkage.Obname(CoefficientType),
		"MEASUREMENTS":          linkage.Obname(MeasurementType),
		"PARAMETERS":            linkage.Obname(ParameterType),
	})
}

// Calibration ties uncalibrated channels to calibrated ones.
type Calibration struct{ *object.Object }

func (c Calibration) Calibrated() []*object.Object   { return many(c.Object, "CALIBRATED-CHANNELS") }
func (c Calibration) Uncalibrated() []*object.Object { return many(c.Object, "UNCALIBRATED-CHANNELS") }
func (c Calibration) Coefficients() []*object.Object { return many(c.Object, "COEFFICIENTS") }
func (c Calibration) Measurements() []*object.Object { return many(c.Object, "MEASUREMENTS") }
func (c Calibration) Parameters() []*object.Object   { return many(c.Object, "PARAMETERS") }
func (c Calibration) Method() string                 { return text(c.Object, "METHOD") }

func measurement() *object.Variant {
	return object.NewVariant(MeasurementType, attrs{
		"PHASE":              scalar,
		"MEASUREMENT-SOURCE": scalar,
		"TYPE":               scalar,
		"DIMENSION":          reverse,
		"AXIS":               reverse,
		"MEASUREMENT":        vector,
		"SAMPLE-COUNT":       scalar,
		"MAXIMUM-DEVIATION":  vector,
		"STANDARD-DEVIATION": vector,
		"BEGIN-TIME":         scalar,
		"DURATION":           scalar,
		"REFERENCE":          vector,
		"STANDARD":           vector,
		"PLUS-TOLERANCE":     vector,
		"MINUS-TOLERANCE":    vector,
	}, links{
		"MEASUREMENT-SOURCE": linkage.Objref,
		"AXIS":               linkage.Obname(AxisType),
	})
}

// Measurement is one calibration measurement and its statistics.
type Measurement struct{ *object.Object }

func (m Measurement) Phase() string           { return text(m.Object, "PHASE") }
func (m Measurement) Source() *object.Object  { return one(m.Object, "MEASUREMENT-SOURCE") }
func (m Measurement) Mtype() string           { return text(m.Object, "TYPE") }
func (m Measurement) Dimension() []core.Value { return list(m.Object, "DIMENSION") }
func (m Measurement) Axis() []*object.Object  { return many(m.Object, "AXIS") }
func (m Measurement) SampleCount() core.Value { return value(m.Object, "SAMPLE-COUNT") }
func (m Measurement) BeginTime() core.Value   { return value(m.Object, "BEGIN-TIME") }
func (m Measurement) Duration() core.Value    { return value(m.Object, "DURATION") }
func (m Measurement) Standard() []core.Value  { return list(m.Object, "STANDARD") }

// Samples returns the measurement samples, shaped by the dimension.
func (m Measurement) Samples() ([]any, error) {
	dims, err := sampling.Dims(m.Value("DIMENSION"))
	if err != nil {
		return nil, err
	}
	values := list(m.Object, "MEASUREMENT")
	shape, err := sampling.ShapeWithFallback(values, dims, sampling.Count(m.Value("SAMPLE-COUNT")))
	if err != nil {
		return nil, err
	}
	return sampling.Split(values, shape)
}

// The statistics below hold a single sample. Extra samples are ignored and
// reported through the returned warning.

func (m Measurement) MaxDeviation() (any, string, error)   { return m.single("MAXIMUM-DEVIATION") }
func (m Measurement) StdDeviation() (any, string, error)   { return m.single("STANDARD-DEVIATION") }
func (m Measurement) Reference() (any, string, error)      { return m.single("REFERENCE") }
func (m Measurement) PlusTolerance() (any, string, error)  { return m.single("PLUS-TOLERANCE") }
func (m Measurement) MinusTolerance() (any, string, error) { return m.single("MINUS-TOLERANCE") }

func (m Measurement) single(label string) (any, string, error) {
	dims, err := sampling.Dims(m.Value("DIMENSION"))
	if err != nil {
		return nil, "", err
	}
	values := list(m.Object, label)
	shape := dims
	if len(shape) == 0 {
		shape = []int{1}
	}
	return sampling.Single(values, shape)
}

func coefficient() *object.Variant {
	return object.NewVariant(CoefficientType, attrs{
		"LABEL":            scalar,
		"COEFFICIENTS":     vector,
		"REFERENCES":       vector,
		"PLUS-TOLERANCES":  vector,
		"MINUS-TOLERANCES": vector,
	}, nil)
}

// Coefficient holds the coefficients of a calibration equation.
type Coefficient struct{ *object.Object }

func (c Coefficient) Label() string                { return text(c.Object, "LABEL") }
func (c Coefficient) Coefficients() []core.Value   { return list(c.Object, "COEFFICIENTS") }
func (c Coefficient) References() []core.Value     { return list(c.Object, "REFERENCES") }
func (c Coefficient) PlusTolerance() []core.Value  { return list(c.Object, "PLUS-TOLERANCES") }
func (c Coefficient) MinusTolerance() []core.Value { return list(c.Object, "MINUS-TOLERANCES") }
