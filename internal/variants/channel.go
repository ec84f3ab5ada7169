package variants

import (
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

func axis() *object.Variant {
	return object.NewVariant(AxisType, attrs{
		"AXIS-ID":     scalar,
		"COORDINATES": vector,
		"SPACING":     scalar,
	}, nil)
}

// Axis describes a coordinate axis of an array.
type Axis struct{ *object.Object }

func (a Axis) AxisID() string            { return text(a.Object, "AXIS-ID") }
func (a Axis) Coordinates() []core.Value { return list(a.Object, "COORDINATES") }
func (a Axis) Spacing() core.Value       { return value(a.Object, "SPACING") }

func longName() *object.Variant {
	return object.NewVariant(LongNameType, attrs{
		"GENERAL-MODIFIER":   vector,
		"QUANTITY":           scalar,
		"QUANTITY-MODIFIER":  vector,
		"ALTERED-FORM":       scalar,
		"ENTITY":             scalar,
		"ENTITY-MODIFIER":    vector,
		"ENTITY-NUMBER":      scalar,
		"ENTITY-PART":        scalar,
		"ENTITY-PART-NUMBER": scalar,
		"GENERIC-SOURCE":     scalar,
		"SOURCE-PART":        vector,
		"SOURCE-PART-NUMBER": vector,
		"CONDITIONS":         vector,
		"STANDARD-SYMBOL":    scalar,
		"PRIVATE-SYMBOL":     scalar,
	}, nil)
}

// LongName is a structured description of a channel, parameter or
// computation.
type LongName struct{ *object.Object }

func (l LongName) Modifier() []string         { return texts(l.Object, "GENERAL-MODIFIER") }
func (l LongName) Quantity() string           { return text(l.Object, "QUANTITY") }
func (l LongName) QuantityModifier() []string { return texts(l.Object, "QUANTITY-MODIFIER") }
func (l LongName) AlteredForm() string        { return text(l.Object, "ALTERED-FORM") }
func (l LongName) Entity() string             { return text(l.Object, "ENTITY") }
func (l LongName) EntityModifier() []string   { return texts(l.Object, "ENTITY-MODIFIER") }
func (l LongName) EntityNumber() string       { return text(l.Object, "ENTITY-NUMBER") }
func (l LongName) EntityPart() string         { return text(l.Object, "ENTITY-PART") }
func (l LongName) EntityPartNumber() string   { return text(l.Object, "ENTITY-PART-NUMBER") }
func (l LongName) GenericSource() string      { return text(l.Object, "GENERIC-SOURCE") }
func (l LongName) SourcePart() []string       { return texts(l.Object, "SOURCE-PART") }
func (l LongName) SourcePartNumber() []string { return texts(l.Object, "SOURCE-PART-NUMBER") }
func (l LongName) Conditions() []string       { return texts(l.Object, "CONDITIONS") }
func (l LongName) StandardSymbol() string     { return text(l.Object, "STANDARD-SYMBOL") }
func (l LongName) PrivateSymbol() string      { return text(l.Object, "PRIVATE-SYMBOL") }

func channel() *object.Variant {
	return object.NewVariant(ChannelType, attrs{
		"LONG-NAME":           scalar,
		"PROPERTIES":          vector,
		"REPRESENTATION-CODE": scalar,
		"UNITS":               scalar,
		"DIMENSION":           reverse,
		"AXIS":                reverse,
		"ELEMENT-LIMIT":       reverse,
		"SOURCE":              scalar,
	}, links{
		"LONG-NAME": linkage.ObnameOrLiteral(LongNameType),
		"AXIS":      linkage.Obname(AxisType),
		"SOURCE":    linkage.Objref,
	})
}

// Channel is a sequence of measured or computed samples indexed against
// e.g. depth or time.
type Channel struct{ *object.Object }

// LongName returns the linked LONG-NAME object, or nil with the literal
// description when the attribute is plain text.
func (c Channel) LongName() (*object.Object, string) {
	target, lit := objectOr(c.Object, "LONG-NAME")
	s, _ := lit.(string)
	return target, s
}

func (c Channel) Properties() []string       { return texts(c.Object, "PROPERTIES") }
func (c Channel) Reprc() core.Value          { return value(c.Object, "REPRESENTATION-CODE") }
func (c Channel) Units() string              { return text(c.Object, "UNITS") }
func (c Channel) Dimension() []core.Value    { return list(c.Object, "DIMENSION") }
func (c Channel) Axis() []*object.Object     { return many(c.Object, "AXIS") }
func (c Channel) ElementLimit() []core.Value { return list(c.Object, "ELEMENT-LIMIT") }
func (c Channel) Source() *object.Object     { return one(c.Object, "SOURCE") }

// Frames returns the frames among candidates that list this channel.
func (c Channel) Frames(candidates []*object.Object) []*object.Object {
	var out []*object.Object
	for _, f := range candidates {
		for _, ch := range (Frame{f}).Channels() {
			if ch == c.Object {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func frame() *object.Variant {
	return object.NewVariant(FrameType, attrs{
		"DESCRIPTION": scalar,
		"CHANNELS":    vector,
		"INDEX-TYPE":  scalar,
		"DIRECTION":   scalar,
		"SPACING":     scalar,
		"ENCRYPTED":   boolean,
		"INDEX-MIN":   scalar,
		"INDEX-MAX":   scalar,
	}, links{
		"CHANNELS": linkage.Obname(ChannelType),
	})
}

// Frame groups channels recorded against the same index.
type Frame struct{ *object.Object }

func (f Frame) Description() string        { return text(f.Object, "DESCRIPTION") }
func (f Frame) Channels() []*object.Object { return many(f.Object, "CHANNELS") }
func (f Frame) IndexType() string          { return text(f.Object, "INDEX-TYPE") }
func (f Frame) Direction() string          { return text(f.Object, "DIRECTION") }
func (f Frame) Spacing() core.Value        { return value(f.Object, "SPACING") }
func (f Frame) IndexMin() core.Value       { return value(f.Object, "INDEX-MIN") }
func (f Frame) IndexMax() core.Value       { return value(f.Object, "INDEX-MAX") }

// Encrypted reports whether the frame carries the ENCRYPTED flag. The
// attribute's presence is the flag; it normally has no value.
func (f Frame) Encrypted() bool {
	_, ok := f.Attic()["ENCRYPTED"]
	return ok
}

// Index returns the index channel, the first channel of the frame.
func (f Frame) Index() *object.Object {
	chans := f.Channels()
	if len(chans) == 0 || f.IndexType() == "" {
		return nil
	}
	return chans[0]
}
