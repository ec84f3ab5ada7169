package variants

import (
	"fmt"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
)

func message() *object.Variant {
	return object.NewVariant(MessageType, attrs{
		"TYPE":           scalar,
		"TIME":           scalar,
		"BOREHOLE-DRIFT": scalar,
		"VERTICAL-DEPTH": scalar,
		"RADIAL-DRIFT":   scalar,
		"ANGULAR-DRIFT":  scalar,
		"TEXT":           vector,
	}, nil)
}

// Message is a timestamped system or operator message.
type Message struct{ *object.Object }

func (m Message) MessageType() string       { return text(m.Object, "TYPE") }
func (m Message) Time() core.Value          { return value(m.Object, "TIME") }
func (m Message) BoreholeDrift() core.Value { return value(m.Object, "BOREHOLE-DRIFT") }
func (m Message) VerticalDepth() core.Value { return value(m.Object, "VERTICAL-DEPTH") }
func (m Message) RadialDrift() core.Value   { return value(m.Object, "RADIAL-DRIFT") }
func (m Message) AngularDrift() core.Value  { return value(m.Object, "ANGULAR-DRIFT") }
func (m Message) Text() []string            { return texts(m.Object, "TEXT") }

func comment() *object.Variant {
	return object.NewVariant(CommentType, attrs{
		"TEXT": vector,
	}, nil)
}

// Comment is free text.
type Comment struct{ *object.Object }

func (c Comment) Text() []string { return texts(c.Object, "TEXT") }

func splice() *object.Variant {
	return object.NewVariant(SpliceType, attrs{
		"OUTPUT-CHANNEL": scalar,
		"INPUT-CHANNELS": vector,
		"ZONES":          vector,
	}, links{
		"OUTPUT-CHANNEL": linkage.Obname(ChannelType),
		"INPUT-CHANNELS": linkage.Obname(ChannelType),
		"ZONES":          linkage.Obname(ZoneType),
	})
}

// Splice describes a channel made by concatenating zones of others.
type Splice struct{ *object.Object }

func (s Splice) OutputChannel() *object.Object   { return one(s.Object, "OUTPUT-CHANNEL") }
func (s Splice) InputChannels() []*object.Object { return many(s.Object, "INPUT-CHANNELS") }
func (s Splice) Zones() []*object.Object         { return many(s.Object, "ZONES") }

// coordinateSlots is the number of COORDINATE-n pairs a well reference has.
const coordinateSlots = 3

func wellReference() *object.Variant {
	a := attrs{
		"PERMANENT-DATUM":           scalar,
		"VERTICAL-ZERO":             scalar,
		"PERMANENT-DATUM-ELEVATION": scalar,
		"ABOVE-PERMANENT-DATUM":     scalar,
		"MAGNETIC-DECLINATION":      scalar,
	}
	for i := 1; i <= coordinateSlots; i++ {
		a[fmt.Sprintf("COORDINATE-%d-NAME", i)] = scalar
		a[fmt.Sprintf("COORDINATE-%d-VALUE", i)] = scalar
	}
	return object.NewVariant(WellReferenceType, a, nil)
}

// WellReference locates the well's reference point.
type WellReference struct{ *object.Object }

func (w WellReference) PermanentDatum() string              { return text(w.Object, "PERMANENT-DATUM") }
func (w WellReference) VerticalZero() string                { return text(w.Object, "VERTICAL-ZERO") }
func (w WellReference) PermanentDatumElevation() core.Value { return value(w.Object, "PERMANENT-DATUM-ELEVATION") }
func (w WellReference) AbovePermanentDatum() core.Value     { return value(w.Object, "ABOVE-PERMANENT-DATUM") }
func (w WellReference) MagneticDeclination() core.Value     { return value(w.Object, "MAGNETIC-DECLINATION") }

// Coordinates pairs each COORDINATE-n-NAME with its COORDINATE-n-VALUE. A
// missing name is replaced by COORDINATE-n; a missing value is nil.
func (w WellReference) Coordinates() map[string]core.Value {
	out := make(map[string]core.Value, coordinateSlots)
	for i := 1; i <= coordinateSlots; i++ {
		name := text(w.Object, fmt.Sprintf("COORDINATE-%d-NAME", i))
		if name == "" {
			name = fmt.Sprintf("COORDINATE-%d", i)
		}
		out[name] = value(w.Object, fmt.Sprintf("COORDINATE-%d-VALUE", i))
	}
	return out
}

func group() *object.Variant {
	return object.NewVariant(GroupType, attrs{
		"DESCRIPTION": scalar,
		"OBJECT-TYPE": scalar,
		"OBJECT-LIST": vector,
		"GROUP-LIST":  vector,
	}, links{
		"OBJECT-LIST": linkage.Objref,
		"GROUP-LIST":  linkage.Obname(GroupType),
	})
}

// Group is an arbitrary collection of objects and other groups.
type Group struct{ *object.Object }

func (g Group) Description() string       { return text(g.Object, "DESCRIPTION") }
func (g Group) ObjectType() string        { return text(g.Object, "OBJECT-TYPE") }
func (g Group) Objects() []*object.Object { return many(g.Object, "OBJECT-LIST") }
func (g Group) Groups() []*object.Object  { return many(g.Object, "GROUP-LIST") }

func path() *object.Variant {
	return object.NewVariant(PathType, attrs{
		"FRAME-TYPE":           scalar,
		"WELL-REFERENCE-POINT": scalar,
		"VALUE":                vector,
		"BOREHOLE-DEPTH":       scalar,
		"VERTICAL-DEPTH":       scalar,
		"RADIAL-DRIFT":         scalar,
		"ANGULAR-DRIFT":        scalar,
		"TIME":                 scalar,
		"DEPTH-OFFSET":         scalar,
		"MEASURE-POINT-OFFSET": scalar,
		"TOOL-ZERO-OFFSET":     scalar,
	}, links{
		"FRAME-TYPE":           linkage.Obname(FrameType),
		"WELL-REFERENCE-POINT": linkage.Obname(WellReferenceType),
		"VALUE":                linkage.Obname(ChannelType),
		"BOREHOLE-DEPTH":       linkage.ObnameOrLiteral(ChannelType),
		"VERTICAL-DEPTH":       linkage.ObnameOrLiteral(ChannelType),
		"RADIAL-DRIFT":         linkage.ObnameOrLiteral(ChannelType),
		"ANGULAR-DRIFT":        linkage.ObnameOrLiteral(ChannelType),
		"TIME":                 linkage.ObnameOrLiteral(ChannelType),
	})
}

// Path describes the trajectory of a frame: each depth field is either a
// constant or the channel that records it.
type Path struct{ *object.Object }

func (p Path) Frame() *object.Object              { return one(p.Object, "FRAME-TYPE") }
func (p Path) WellReferencePoint() *object.Object { return one(p.Object, "WELL-REFERENCE-POINT") }
func (p Path) Values() []*object.Object           { return many(p.Object, "VALUE") }
func (p Path) DepthOffset() core.Value            { return value(p.Object, "DEPTH-OFFSET") }
func (p Path) MeasurePointOffset() core.Value     { return value(p.Object, "MEASURE-POINT-OFFSET") }
func (p Path) ToolZeroOffset() core.Value         { return value(p.Object, "TOOL-ZERO-OFFSET") }

// The depth fields below return either the channel recording the quantity
// or the constant value, never both.

func (p Path) BoreholeDepth() (*object.Object, core.Value) { return objectOr(p.Object, "BOREHOLE-DEPTH") }
func (p Path) VerticalDepth() (*object.Object, core.Value) { return objectOr(p.Object, "VERTICAL-DEPTH") }
func (p Path) RadialDrift() (*object.Object, core.Value)   { return objectOr(p.Object, "RADIAL-DRIFT") }
func (p Path) AngularDrift() (*object.Object, core.Value)  { return objectOr(p.Object, "ANGULAR-DRIFT") }
func (p Path) Time() (*object.Object, core.Value)          { return objectOr(p.Object, "TIME") }
