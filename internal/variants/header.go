package variants

import (
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

func fileHeader() *object.Variant {
	return object.NewVariant(FileHeaderType, attrs{
		"SEQUENCE-NUMBER": scalar,
		"ID":              scalar,
	}, nil)
}

// FileHeader identifies a logical file.
type FileHeader struct{ *object.Object }

// SequenceNumber is the logical file's sequence number.
func (f FileHeader) SequenceNumber() string { return text(f.Object, "SEQUENCE-NUMBER") }

// ID is the logical file's descriptive id.
func (f FileHeader) ID() string { return text(f.Object, "ID") }

func origin() *object.Variant {
	return object.NewVariant(OriginType, attrs{
		"FILE-ID":            scalar,
		"FILE-SET-NAME":      scalar,
		"FILE-SET-NUMBER":    scalar,
		"FILE-NUMBER":        scalar,
		"FILE-TYPE":          scalar,
		"PRODUCT":            scalar,
		"VERSION":            scalar,
		"PROGRAMS":           vector,
		"CREATION-TIME":      scalar,
		"ORDER-NUMBER":       scalar,
		"DESCENT-NUMBER":     vector,
		"RUN-NUMBER":         vector,
		"WELL-ID":            scalar,
		"WELL-NAME":          scalar,
		"FIELD-NAME":         scalar,
		"PRODUCER-CODE":      scalar,
		"PRODUCER-NAME":      scalar,
		"COMPANY":            scalar,
		"NAME-SPACE-NAME":    scalar,
		"NAME-SPACE-VERSION": scalar,
	}, nil)
}

// Origin describes the circumstances a logical file was created under.
type Origin struct{ *object.Object }

func (o Origin) FileID() string               { return text(o.Object, "FILE-ID") }
func (o Origin) FileSetName() string          { return text(o.Object, "FILE-SET-NAME") }
func (o Origin) FileSetNumber() core.Value    { return value(o.Object, "FILE-SET-NUMBER") }
func (o Origin) FileNumber() core.Value       { return value(o.Object, "FILE-NUMBER") }
func (o Origin) FileType() string             { return text(o.Object, "FILE-TYPE") }
func (o Origin) Product() string              { return text(o.Object, "PRODUCT") }
func (o Origin) Version() string              { return text(o.Object, "VERSION") }
func (o Origin) Programs() []string           { return texts(o.Object, "PROGRAMS") }
func (o Origin) CreationTime() core.Value     { return value(o.Object, "CREATION-TIME") }
func (o Origin) OrderNumber() string          { return text(o.Object, "ORDER-NUMBER") }
func (o Origin) DescentNumber() []core.Value  { return list(o.Object, "DESCENT-NUMBER") }
func (o Origin) RunNumber() []core.Value      { return list(o.Object, "RUN-NUMBER") }
func (o Origin) WellID() string               { return text(o.Object, "WELL-ID") }
func (o Origin) WellName() string             { return text(o.Object, "WELL-NAME") }
func (o Origin) FieldName() string            { return text(o.Object, "FIELD-NAME") }
func (o Origin) ProducerCode() core.Value     { return value(o.Object, "PRODUCER-CODE") }
func (o Origin) ProducerName() string         { return text(o.Object, "PRODUCER-NAME") }
func (o Origin) Company() string              { return text(o.Object, "COMPANY") }
func (o Origin) NamespaceName() string        { return text(o.Object, "NAME-SPACE-NAME") }
func (o Origin) NamespaceVersion() core.Value { return value(o.Object, "NAME-SPACE-VERSION") }
