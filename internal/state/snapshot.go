package state

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/session"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// NewSnapshot captures the current objects, links and diagnostics of sess.
func NewSnapshot(source string, sess *session.Session) (*Snapshot, error) {
	stats := sess.Stats()
	snap := &Snapshot{
		Source:   source,
		Records:  stats.Records,
		Warnings: len(sess.Warnings()),
	}

	for _, o := range sess.Objects().All() {
		row, err := objectRow(o)
		if err != nil {
			return nil, err
		}
		snap.Objects = append(snap.Objects, row)
		snap.Links = append(snap.Links, linkRows(o)...)
	}

	for _, d := range sess.Diagnostics() {
		snap.Diagnostics = append(snap.Diagnostics, diagnosticRow(d))
	}
	return snap, nil
}

func objectRow(o *object.Object) (ObjectRow, error) {
	fp := o.Fingerprint()
	attrs, err := json.Marshal(o.Attributes())
	if err != nil {
		return ObjectRow{}, fmt.Errorf("failed to encode attributes of %s: %w", fp, err)
	}
	stash, err := json.Marshal(o.Stash())
	if err != nil {
		return ObjectRow{}, fmt.Errorf("failed to encode stash of %s: %w", fp, err)
	}
	return ObjectRow{
		Fingerprint: fp.String(),
		Type:        fp.Type,
		Origin:      fp.Origin,
		Copy:        fp.Copy,
		Name:        fp.Name,
		Variant:     o.Variant().Name,
		Attributes:  string(attrs),
		Stash:       string(stash),
	}, nil
}

// linkRows lists the resolved object links of o. Literals and dangling
// references are not links.
func linkRows(o *object.Object) []LinkRow {
	links := o.Links()
	labels := make([]string, 0, len(links))
	for label := range links {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	source := o.Fingerprint().String()
	var out []LinkRow
	for _, label := range labels {
		switch v := links[label].(type) {
		case *object.Object:
			out = append(out, LinkRow{Source: source, Label: label, Target: v.Fingerprint().String()})
		case []any:
			for i, elem := range v {
				if target, ok := elem.(*object.Object); ok && target != nil {
					out = append(out, LinkRow{Source: source, Label: label, Position: i, Target: target.Fingerprint().String()})
				}
			}
		}
	}
	return out
}

func diagnosticRow(d diag.Diagnostic) DiagnosticRow {
	fp := ""
	if d.Fingerprint != (core.Fingerprint{}) {
		fp = d.Fingerprint.String()
	}
	return DiagnosticRow{
		Severity:    d.Severity.String(),
		Code:        string(d.Code),
		Type:        d.Type,
		Fingerprint: fp,
		Label:       d.Label,
		Message:     d.Message,
	}
}
