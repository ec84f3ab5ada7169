package commands

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// formatValue renders an attribute or link value for text output. Linked
// objects print as their fingerprint, dangling links as "<dangling>".
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case *object.Object:
		if x == nil {
			return "<dangling>"
		}
		return x.Fingerprint().String()
	case []any:
		parts := make([]string, len(x))
		for i, elem := range x {
			if elem == nil {
				parts[i] = "<dangling>"
				continue
			}
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case core.ObjectName:
		return fmt.Sprintf("%s (O.%d C.%d)", x.ID, x.Origin, x.Copy)
	case core.ObjectRef:
		return fmt.Sprintf("%s:%s (O.%d C.%d)", x.Type, x.Name.ID, x.Name.Origin, x.Name.Copy)
	case core.MalformedRef:
		return fmt.Sprintf("<malformed: %s>", x.Reason)
	case time.Time:
		return x.Format(time.RFC3339)
	case string:
		if !utf8.ValidString(x) {
			return fmt.Sprintf("%q", x)
		}
		return x
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	default:
		return fmt.Sprint(v)
	}
}

// jsonValue replaces linked objects with their fingerprint strings so v can
// be encoded without walking the object graph.
func jsonValue(v any) any {
	switch x := v.(type) {
	case *object.Object:
		if x == nil {
			return nil
		}
		return x.Fingerprint().String()
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = jsonValue(elem)
		}
		return out
	default:
		return v
	}
}

// diagnosticJSON is the JSON form of a diagnostic.
type diagnosticJSON struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Type        string `json:"type,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Label       string `json:"label,omitempty"`
	Message     string `json:"message"`
}

func toDiagnosticJSON(ds []diag.Diagnostic) []diagnosticJSON {
	out := make([]diagnosticJSON, 0, len(ds))
	for _, d := range ds {
		fp := ""
		if d.Fingerprint != (core.Fingerprint{}) {
			fp = d.Fingerprint.String()
		}
		out = append(out, diagnosticJSON{
			Severity:    d.Severity.String(),
			Code:        string(d.Code),
			Type:        d.Type,
			Fingerprint: fp,
			Label:       d.Label,
			Message:     d.Message,
		})
	}
	return out
}
