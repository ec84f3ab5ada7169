package rawfile

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"gopkg.in/yaml.v3"
)

// Value tags.
const (
	TagObname    = "!obname"
	TagObjref    = "!objref"
	TagMalformed = "!malformed"
	TagTime      = "!time"
	TagRawString = "!rawstring"
)

// attribute is core.RawAttribute with YAML methods. Accepts:
//   - a scalar or tagged value: one value
//   - a sequence: the values, in order
//   - null: no values
//   - an untagged mapping: {values: [...], unit: m}
type attribute core.RawAttribute

type nameDoc struct {
	Type   string `yaml:"type,omitempty"`
	Origin uint32 `yaml:"origin"`
	Copy   uint8  `yaml:"copy"`
	Name   string `yaml:"name"`
}

type malformedDoc struct {
	Raw    string `yaml:"raw"`
	Reason string `yaml:"reason"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *attribute) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.SequenceNode:
		values, err := decodeValues(node)
		if err != nil {
			return err
		}
		*a = attribute{Values: values}
		return nil

	case node.Kind == yaml.MappingNode && (node.Tag == "" || node.Tag == "!!map"):
		return a.decodeFull(node)

	default:
		v, err := decodeValue(node)
		if err != nil {
			return err
		}
		*a = attribute{Values: []core.Value{v}}
		return nil
	}
}

func (a *attribute) decodeFull(node *yaml.Node) error {
	out := attribute{Values: []core.Value{}}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "values":
			if val.Kind != yaml.SequenceNode {
				return fmt.Errorf("line %d: values must be a sequence", val.Line)
			}
			values, err := decodeValues(val)
			if err != nil {
				return err
			}
			out.Values = values
		case "unit":
			if err := val.Decode(&out.Unit); err != nil {
				return fmt.Errorf("line %d: invalid unit: %w", val.Line, err)
			}
		default:
			return fmt.Errorf("line %d: unknown attribute key %q (expected values or unit)", key.Line, key.Value)
		}
	}
	*a = out
	return nil
}

// MarshalYAML implements yaml.Marshaler. Attributes without a unit are
// written as a flow sequence.
func (a attribute) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range a.Values {
		n, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, n)
	}
	if a.Unit == "" {
		return seq, nil
	}
	return &yaml.Node{
		Kind:  yaml.MappingNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			scalar("!!str", "values"), seq,
			scalar("!!str", "unit"), scalar("!!str", a.Unit),
		},
	}, nil
}

func decodeValues(node *yaml.Node) ([]core.Value, error) {
	values := make([]core.Value, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeValue(node *yaml.Node) (core.Value, error) {
	switch node.Tag {
	case TagObname:
		var d nameDoc
		if err := decodeUntagged(node, &d); err != nil {
			return nil, err
		}
		if d.Type != "" {
			return nil, fmt.Errorf("line %d: %s takes no type, use %s", node.Line, TagObname, TagObjref)
		}
		return core.ObjectName{Origin: d.Origin, Copy: d.Copy, ID: d.Name}, nil

	case TagObjref:
		var d nameDoc
		if err := decodeUntagged(node, &d); err != nil {
			return nil, err
		}
		return core.ObjectRef{Type: d.Type, Name: core.ObjectName{Origin: d.Origin, Copy: d.Copy, ID: d.Name}}, nil

	case TagMalformed:
		var d malformedDoc
		if err := decodeUntagged(node, &d); err != nil {
			return nil, err
		}
		return core.MalformedRef{Raw: d.Raw, Reason: d.Reason}, nil

	case TagTime:
		t, err := time.Parse(time.RFC3339Nano, node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time: %w", node.Line, err)
		}
		return t, nil

	case TagRawString:
		b, err := base64.StdEncoding.DecodeString(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", node.Line, TagRawString, err)
		}
		return string(b), nil
	}

	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a value, got %s", node.Line, kindName(node.Kind))
	}

	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := node.Decode(&b)
		return b, wrapLine(node, err)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		err := node.Decode(&u)
		return u, wrapLine(node, err)
	case "!!float":
		var f float64
		err := node.Decode(&f)
		return f, wrapLine(node, err)
	case "!!timestamp":
		var t time.Time
		err := node.Decode(&t)
		return t, wrapLine(node, err)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(node.Value)
		return b, wrapLine(node, err)
	case "!!str":
		return node.Value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported tag %s", node.Line, node.Tag)
	}
}

// decodeUntagged decodes a tagged mapping into out. The tag only selects
// the value kind.
func decodeUntagged(node *yaml.Node, out any) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s expects a mapping", node.Line, node.Tag)
	}
	c := *node
	c.Tag = ""
	if err := c.Decode(out); err != nil {
		return fmt.Errorf("line %d: invalid %s: %w", node.Line, node.Tag, err)
	}
	return nil
}

func encodeValue(v core.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return scalar("!!null", "~"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(x)), nil
	case int:
		return scalar("!!int", strconv.Itoa(x)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10)), nil
	case uint64:
		return scalar("!!int", strconv.FormatUint(x, 10)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(x, 'g', -1, 64)), nil
	case string:
		if !utf8.ValidString(x) {
			return scalar(TagRawString, base64.StdEncoding.EncodeToString([]byte(x))), nil
		}
		return scalar("!!str", x), nil
	case []byte:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(x)), nil
	case time.Time:
		return scalar(TagTime, x.Format(time.RFC3339Nano)), nil
	case core.ObjectName:
		return tagged(TagObname, nameDoc{Origin: x.Origin, Copy: x.Copy, Name: x.ID})
	case core.ObjectRef:
		return tagged(TagObjref, nameDoc{Type: x.Type, Origin: x.Name.Origin, Copy: x.Name.Copy, Name: x.Name.ID})
	case core.MalformedRef:
		return tagged(TagMalformed, malformedDoc{Raw: x.Raw, Reason: x.Reason})
	default:
		return nil, fmt.Errorf("cannot encode value of type %T", v)
	}
}

func tagged(tag string, doc any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(doc); err != nil {
		return nil, err
	}
	n.Tag = tag
	n.Style = yaml.FlowStyle
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func wrapLine(node *yaml.Node, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("line %d: %w", node.Line, err)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
