package testutil

import (
	"time"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// FixtureOrigin is the origin every fixture object is defined under.
const FixtureOrigin = 10

// Obname returns a name-reference under the fixture origin.
func Obname(id string) core.ObjectName {
	return core.ObjectName{Origin: FixtureOrigin, ID: id}
}

// Objref returns a bare object reference under the fixture origin.
func Objref(recordType, id string) core.ObjectRef {
	return core.ObjectRef{Type: recordType, Name: Obname(id)}
}

// Attr returns a raw attribute holding values.
func Attr(values ...core.Value) core.RawAttribute {
	if values == nil {
		values = []core.Value{}
	}
	return core.RawAttribute{Values: values}
}

// Rec builds a record under the fixture origin.
func Rec(recordType, id string, attrs map[string]core.RawAttribute) core.Record {
	if attrs == nil {
		attrs = map[string]core.RawAttribute{}
	}
	return core.Record{Type: recordType, Name: Obname(id), Attributes: attrs}
}

func ints(ns ...int64) []core.Value {
	out := make([]core.Value, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}

func names(ids ...string) []core.Value {
	out := make([]core.Value, len(ids))
	for i, id := range ids {
		out[i] = Obname(id)
	}
	return out
}

// Fixture returns a logical file exercising every built-in record type,
// dangling references included. Each call returns fresh records.
func Fixture() []core.Record {
	return []core.Record{
		Rec("FILE-HEADER", "N", map[string]core.RawAttribute{
			"SEQUENCE-NUMBER": Attr("8"),
			"ID":              Attr("some logical file"),
		}),
		Rec("ORIGIN", "DEFINING_ORIGIN", map[string]core.RawAttribute{
			"FILE-ID":         Attr("some logical file"),
			"FILE-SET-NAME":   Attr("SET-NAME"),
			"FILE-SET-NUMBER": Attr(int64(1042)),
			"FILE-NUMBER":     Attr(int64(7)),
			"PROGRAMS":        Attr("PROG1", "PROG2"),
			"CREATION-TIME":   Attr(time.Date(2019, 5, 2, 13, 51, 0, 0, time.UTC)),
			"RUN-NUMBER":      Attr(int64(17)),
			"WELL-NAME":       Attr("SECRET-WELL"),
		}),
		Rec("AXIS", "AXIS1", map[string]core.RawAttribute{"AXIS-ID": Attr("AX1")}),
		Rec("AXIS", "AXIS2", map[string]core.RawAttribute{
			"AXIS-ID":     Attr("AX2"),
			"COORDINATES": Attr("very near", "not so far"),
			"SPACING":     Attr("a bit"),
		}),
		Rec("AXIS", "AXIS3", map[string]core.RawAttribute{"AXIS-ID": Attr("AX3")}),
		Rec("LONG-NAME", "CHANN1-LONG-NAME", map[string]core.RawAttribute{
			"GENERAL-MODIFIER": Attr("channel 1 long name"),
			"QUANTITY":         Attr("color"),
		}),
		Rec("LONG-NAME", "PARAM1-LONG", nil),
		Rec("CHANNEL", "CHANN1", map[string]core.RawAttribute{
			"LONG-NAME":           Attr(Obname("CHANN1-LONG-NAME")),
			"PROPERTIES":          Attr("AVERAGED", "DERIVED", "PATCHED"),
			"REPRESENTATION-CODE": Attr(int64(16)),
			"DIMENSION":           Attr(ints(2, 3, 4)...),
			"AXIS":                Attr(names("AXIS1", "AXIS2", "AXIS3")...),
			"ELEMENT-LIMIT":       Attr(ints(10, 15, 11)...),
			"SOURCE":              Attr(Objref("TOOL", "TOOL1")),
		}),
		Rec("CHANNEL", "CHANN2", map[string]core.RawAttribute{
			"LONG-NAME": Attr("Channel 2"),
			"SOURCE":    Attr(Obname("FRAME1")),
		}),
		Rec("CHANNEL", "CHANN3", nil),
		Rec("CHANNEL", "CHANN4", nil),
		Rec("FRAME", "FRAME1", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("Main frame"),
			"CHANNELS":    Attr(names("CHANN1", "CHANN2")...),
			"INDEX-TYPE":  Attr("BOREHOLE-DEPTH"),
			"SPACING":     Attr(int64(119)),
			"INDEX-MIN":   Attr(int64(1)),
			"INDEX-MAX":   Attr(int64(100)),
		}),
		Rec("FRAME", "FRAME2", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("Secondary frame"),
			"ENCRYPTED":   Attr(),
		}),
		Rec("ZONE", "ZONE-A", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("Some along zone"),
			"DOMAIN":      Attr("VERTICAL-DEPTH"),
			"MAXIMUM":     Attr(int64(13398)),
			"MINIMUM":     Attr(int64(8603)),
		}),
		Rec("PARAMETER", "PARAM1", map[string]core.RawAttribute{
			"LONG-NAME": Attr(Obname("PARAM1-LONG")),
			"DIMENSION": Attr(int64(2)),
			"VALUES":    Attr(ints(101, 120)...),
		}),
		Rec("PARAMETER", "PARAM2", nil),
		Rec("PARAMETER", "PARAM3", map[string]core.RawAttribute{
			"DIMENSION": Attr(ints(3, 2)...),
			"AXIS":      Attr(names("AXIS2", "AXIS3")...),
			"ZONES":     Attr(names("ZONE-A", "ZONE-B", "ZONE-C", "ZONE-D")...),
			"VALUES":    Attr(ints(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24)...),
		}),
		Rec("EQUIPMENT", "EQUIP1", map[string]core.RawAttribute{
			"TRADEMARK-NAME": Attr("some equipment"),
			"STATUS":         Attr(int64(1)),
			"HEIGHT":         Attr(int64(120)),
		}),
		Rec("TOOL", "TOOL1", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("description of tool 1"),
			"PARTS":       Attr(names("EQUIP1")...),
			"STATUS":      Attr(int64(1)),
			"CHANNELS":    Attr(names("CHANN1", "CHANN2")...),
			"PARAMETERS":  Attr(names("PARAM1", "PARAMX", "PARAM2")...),
		}),
		Rec("MESSAGE", "MESSAGE1", map[string]core.RawAttribute{
			"TYPE": Attr("SYSTEM"),
			"TEXT": Attr("System says hi!"),
		}),
		Rec("COMMENT", "COMMENT1", map[string]core.RawAttribute{
			"TEXT": Attr("Trust me, this is a very nice comment", "What, you don't believe me?", ":-("),
		}),
		Rec("CALIBRATION-MEASUREMENT", "MEAS1", map[string]core.RawAttribute{
			"PHASE":              Attr("MASTER"),
			"MEASUREMENT-SOURCE": Attr(Objref("TOOL", "TOOL1")),
			"TYPE":               Attr("Zero"),
			"DIMENSION":          Attr(ints(2, 3)...),
			"AXIS":               Attr(names("AXIS1", "AXIS2")...),
			"MEASUREMENT":        Attr(ints(240, 137, 228, 120, 240, 136)...),
			"SAMPLE-COUNT":       Attr(int64(1)),
			"REFERENCE":          Attr(ints(240, 135, 240, 135, 240, 135)...),
		}),
		Rec("CALIBRATION-MEASUREMENT", "MEAS2", nil),
		Rec("CALIBRATION-COEFFICIENT", "COEFF1", map[string]core.RawAttribute{
			"LABEL":        Attr("GAIN"),
			"COEFFICIENTS": Attr(ints(18, 25)...),
		}),
		Rec("CALIBRATION-COEFFICIENT", "COEFF2", nil),
		Rec("CALIBRATION", "CALIBR1", map[string]core.RawAttribute{
			"CALIBRATED-CHANNELS":   Attr(names("CHANN1", "CHANN2")...),
			"UNCALIBRATED-CHANNELS": Attr(names("CHANN3", "CHANN4")...),
			"COEFFICIENTS":          Attr(names("COEFF1", "COEFF2")...),
			"MEASUREMENTS":          Attr(names("MEAS1", "MEAS2")...),
			"PARAMETERS":            Attr(names("PARAM1", "PARAM2", "PARAM3")...),
			"METHOD":                Attr("USELESS"),
		}),
		Rec("COMPUTATION", "COMPUT1", nil),
		Rec("COMPUTATION", "COMPUT2", map[string]core.RawAttribute{
			"LONG-NAME":  Attr("computation object 2"),
			"PROPERTIES": Attr("MUDCAKE-CORRECTED", "DEPTH-MATCHED"),
			"DIMENSION":  Attr(ints(2, 4)...),
			"AXIS":       Attr(names("AXIS2", "AXIS3")...),
			"ZONES":      Attr(names("ZONE-A")...),
			"VALUES":     Attr(ints(140, 99, 144, 172, 202, 52, 109, 120)...),
			"SOURCE":     Attr(Objref("PROCESS", "PROC1")),
		}),
		Rec("PROCESS", "PROC1", map[string]core.RawAttribute{
			"DESCRIPTION":         Attr("Random process"),
			"PROPERTIES":          Attr("RE-SAMPLED", "LITHOLOGY-CORRECTED"),
			"STATUS":              Attr("COMPLETE"),
			"INPUT-CHANNELS":      Attr(names("CHANN1")...),
			"OUTPUT-CHANNELS":     Attr(names("CHANN3", "CHANN2")...),
			"INPUT-COMPUTATIONS":  Attr(names("COMPUT1")...),
			"OUTPUT-COMPUTATIONS": Attr(names("COMPUT2")...),
			"PARAMETERS":          Attr(names("PARAM1", "PARAM3")...),
			"COMMENTS":            Attr("It was", "nicely", "executed", "??"),
		}),
		Rec("SPLICE", "SPLICE1", map[string]core.RawAttribute{
			"OUTPUT-CHANNEL": Attr(Obname("CHANN-NEW")),
			"INPUT-CHANNELS": Attr(names("CHANN4", "CHANN1")...),
			"ZONES":          Attr(names("ZONE-A", "ZONE-B")...),
		}),
		Rec("WELL-REFERENCE", "THE-WELL", map[string]core.RawAttribute{
			"PERMANENT-DATUM":    Attr("Ground Level"),
			"VERTICAL-ZERO":      Attr("Kelly Bushing"),
			"COORDINATE-1-NAME":  Attr("longitude"),
			"COORDINATE-1-VALUE": Attr(-11.25),
			"COORDINATE-2-NAME":  Attr("latitude"),
			"COORDINATE-2-VALUE": Attr(60.75),
			"COORDINATE-3-NAME":  Attr("elevation"),
			"COORDINATE-3-VALUE": Attr(0.25),
		}),
		Rec("GROUP", "GROUP1", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("some axis group"),
			"OBJECT-TYPE": Attr("AXIS"),
			"OBJECT-LIST": Attr(Objref("AXIS", "AXIS1"), Objref("AXIS", "AXIS3")),
		}),
		Rec("GROUP", "GROUP2", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("various objects"),
			"OBJECT-LIST": Attr(Objref("PARAMETER", "PARAM3")),
		}),
		Rec("GROUP", "GROUP3", map[string]core.RawAttribute{
			"DESCRIPTION": Attr("messed up group"),
			"OBJECT-TYPE": Attr("IGNORE-ME-PLZ"),
			"OBJECT-LIST": Attr(Objref("AXIS", "AXIS2"), Objref("CHANNEL", "CHANN3"), Objref("TOOL", "TOOL1")),
			"GROUP-LIST":  Attr(names("GROUP1", "GROUP2")...),
		}),
		Rec("PATH", "PATH1", map[string]core.RawAttribute{
			"FRAME-TYPE":           Attr(Obname("FRAME1")),
			"WELL-REFERENCE-POINT": Attr(Obname("THE-WELL")),
			"VALUE":                Attr(names("CHANN2", "CHANN1")...),
			"BOREHOLE-DEPTH":       Attr(int64(87)),
			"VERTICAL-DEPTH":       Attr(Obname("CHANN2")),
			"ANGULAR-DRIFT":        Attr(Obname("CHANN1")),
			"TIME":                 Attr(int64(180)),
			"TOOL-ZERO-OFFSET":     Attr(int64(-7)),
		}),
		Rec("UNKNOWN_SET", "OBJ1", map[string]core.RawAttribute{
			"SOME_LIST":   Attr("LIST_V1", "LIST_V2"),
			"SOME_VALUE":  Attr("VAL1"),
			"SOME_STATUS": Attr(int64(1)),
		}),
	}
}
