// Package rawfile reads and writes record dumps: the decoder's output for
// one physical file, as YAML, one or more logical files of raw records.
//
// A dump either lists records directly or groups them into logical files:
//
//	logical_files:
//	  - name: main
//	    records:
//	      - type: CHANNEL
//	        origin: 10
//	        copy: 0
//	        name: CHANN1
//	        attributes:
//	          PROPERTIES: [AVERAGED, DERIVED]
//	          DIMENSION: {values: [2, 3], unit: ""}
//	          SOURCE: !objref {type: TOOL, origin: 10, copy: 0, name: TOOL1}
//	          AXIS: [!obname {origin: 10, copy: 0, name: AXIS1}]
//
// Attribute values are plain YAML scalars (integers become int64) or one of
// the tags !obname, !objref, !malformed, !time, !!binary and !rawstring
// (base64 bytes kept as a string, for text that is not valid UTF-8).
package rawfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"gopkg.in/yaml.v3"
)

// ErrBothForms is returned for a dump that mixes top-level records with
// logical files.
var ErrBothForms = errors.New("dump has both records and logical_files")

// File is a parsed dump.
type File struct {
	Path         string
	LogicalFiles []LogicalFile
}

// LogicalFile is one logical file of a dump.
type LogicalFile struct {
	Name    string
	Records []core.Record
}

// Records returns the records of every logical file, in order.
func (f *File) Records() []core.Record {
	var out []core.Record
	for _, lf := range f.LogicalFiles {
		out = append(out, lf.Records...)
	}
	return out
}

type document struct {
	Records      []recordDoc  `yaml:"records,omitempty"`
	LogicalFiles []logicalDoc `yaml:"logical_files,omitempty"`
}

type logicalDoc struct {
	Name    string      `yaml:"name,omitempty"`
	Records []recordDoc `yaml:"records"`
}

type recordDoc struct {
	Type       string               `yaml:"type"`
	Origin     uint32               `yaml:"origin"`
	Copy       uint8                `yaml:"copy"`
	Name       string               `yaml:"name"`
	Attributes map[string]attribute `yaml:"attributes,omitempty"`
}

// LoadFile loads and parses a dump from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read dump %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse parses YAML data into a File. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse dump YAML: %w", err)
	}

	if len(doc.Records) > 0 && len(doc.LogicalFiles) > 0 {
		return nil, ErrBothForms
	}

	f := &File{}
	if len(doc.LogicalFiles) == 0 {
		f.LogicalFiles = []LogicalFile{{Records: toRecords(doc.Records)}}
		return f, nil
	}
	for _, lf := range doc.LogicalFiles {
		f.LogicalFiles = append(f.LogicalFiles, LogicalFile{Name: lf.Name, Records: toRecords(lf.Records)})
	}
	return f, nil
}

// Marshal serializes a File to YAML. A single unnamed logical file is
// written in the short form.
func Marshal(f *File) ([]byte, error) {
	var doc document
	if len(f.LogicalFiles) == 1 && f.LogicalFiles[0].Name == "" {
		doc.Records = fromRecords(f.LogicalFiles[0].Records)
	} else {
		for _, lf := range f.LogicalFiles {
			doc.LogicalFiles = append(doc.LogicalFiles, logicalDoc{Name: lf.Name, Records: fromRecords(lf.Records)})
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to marshal dump: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal dump: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: dumps are not secret
		return fmt.Errorf("failed to write dump %s: %w", path, err)
	}
	return nil
}

func toRecords(docs []recordDoc) []core.Record {
	out := make([]core.Record, 0, len(docs))
	for _, d := range docs {
		attrs := make(map[string]core.RawAttribute, len(d.Attributes))
		for label, a := range d.Attributes {
			// A null attribute never reaches UnmarshalYAML.
			if a.Values == nil {
				a.Values = []core.Value{}
			}
			attrs[label] = core.RawAttribute(a)
		}
		out = append(out, core.Record{
			Type:       d.Type,
			Name:       core.ObjectName{Origin: d.Origin, Copy: d.Copy, ID: d.Name},
			Attributes: attrs,
		})
	}
	return out
}

func fromRecords(recs []core.Record) []recordDoc {
	out := make([]recordDoc, 0, len(recs))
	for _, rec := range recs {
		var attrs map[string]attribute
		if len(rec.Attributes) > 0 {
			attrs = make(map[string]attribute, len(rec.Attributes))
			for label, a := range rec.Attributes {
				attrs[label] = attribute(a)
			}
		}
		out = append(out, recordDoc{
			Type:       rec.Type,
			Origin:     rec.Name.Origin,
			Copy:       rec.Name.Copy,
			Name:       rec.Name.ID,
			Attributes: attrs,
		})
	}
	return out
}
