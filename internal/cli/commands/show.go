package commands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/dlisgraph/internal/batch"
	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/objectset"
	"github.com/spf13/cobra"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Origin      int
	Copy        int
	LogicalFile string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}
	rf := &registryFlags{}
	cmd := &cobra.Command{
		Use:   "show <dump> <type> <name>",
		Short: "Show one object's attributes, stash and links",
		Long: `Load a dump and print one object: its schema attributes (with references
resolved to the objects they point at), the stash of attributes its schema
does not declare, and the objects that reference it.

When several objects share the type and name, narrow the match with
--origin and --copy.`,
		Example: `  # Show a channel
  dlisgraph show well.yaml CHANNEL GR

  # Disambiguate by origin and copy
  dlisgraph show well.yaml TOOL SONIC --origin 2 --copy 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1], args[2], opts, rf)
		},
	}

	cmd.Flags().IntVar(&opts.Origin, "origin", -1, "Only match objects defined under this origin")
	cmd.Flags().IntVar(&opts.Copy, "copy", -1, "Only match objects with this copy number")
	cmd.Flags().StringVar(&opts.LogicalFile, "logical-file", "", "Only search the named logical file")
	rf.register(cmd)

	return cmd
}

// attributeJSON is one attribute of a shown object.
type attributeJSON struct {
	Value any    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// referrerJSON is one incoming reference.
type referrerJSON struct {
	From  string `json:"from"`
	Label string `json:"label"`
}

// showOutput is the JSON form of show.
type showOutput struct {
	LogicalFile  string                   `json:"logical_file"`
	Fingerprint  string                   `json:"fingerprint"`
	Type         string                   `json:"type"`
	Name         string                   `json:"name"`
	Origin       uint32                   `json:"origin"`
	Copy         uint8                    `json:"copy"`
	Variant      string                   `json:"variant"`
	Attributes   map[string]attributeJSON `json:"attributes"`
	Stash        map[string]attributeJSON `json:"stash"`
	ReferencedBy []referrerJSON           `json:"referenced_by"`
}

func runShow(cmd *cobra.Command, path, recordType, name string, opts *ShowOptions, rf *registryFlags) error {
	cmdCtx := NewCommandContext(cmd)
	_, entries, err := cmdCtx.LoadDump(cmd.Context(), path, rf)
	if err != nil {
		return err
	}

	var findOpts []objectset.FindOption
	if opts.Origin >= 0 {
		findOpts = append(findOpts, objectset.WithOrigin(uint32(opts.Origin))) //nolint:gosec // G115: origin is a user-supplied filter
	}
	if opts.Copy >= 0 {
		findOpts = append(findOpts, objectset.WithCopy(uint8(opts.Copy))) //nolint:gosec // G115: copy is a user-supplied filter
	}

	entry, obj, err := findObject(entries, opts.LogicalFile, recordType, name, findOpts)
	if err != nil {
		return err
	}

	out := describe(entry, obj)
	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}
	showText(r, out)
	return nil
}

// findObject searches the logical files in order and returns the first
// match. An ambiguous match is an error.
func findObject(entries []*batch.Entry, logicalFile, recordType, name string, opts []objectset.FindOption) (*batch.Entry, *object.Object, error) {
	searched := 0
	for _, e := range entries {
		if logicalFile != "" && e.Label() != logicalFile {
			continue
		}
		searched++
		obj, err := e.Session.Object(recordType, name, opts...)
		if errors.Is(err, objectset.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		return e, obj, nil
	}
	if searched == 0 {
		return nil, nil, fmt.Errorf("no logical file named %q", logicalFile)
	}
	return nil, nil, fmt.Errorf("%s %s: %w\nHint: Run 'dlisgraph inspect' to list the record types in the dump", recordType, name, objectset.ErrNotFound)
}

func describe(e *batch.Entry, obj *object.Object) showOutput {
	fp := obj.Fingerprint()
	out := showOutput{
		LogicalFile:  e.Label(),
		Fingerprint:  fp.String(),
		Type:         fp.Type,
		Name:         fp.Name,
		Origin:       fp.Origin,
		Copy:         fp.Copy,
		Variant:      obj.Variant().Name,
		Attributes:   map[string]attributeJSON{},
		Stash:        map[string]attributeJSON{},
		ReferencedBy: []referrerJSON{},
	}

	for label := range obj.Attributes() {
		out.Attributes[label] = attributeJSON{Value: jsonValue(obj.Value(label)), Unit: obj.Unit(label)}
	}
	for label, values := range obj.Stash() {
		out.Stash[label] = attributeJSON{Value: values, Unit: obj.Unit(label)}
	}
	for _, edge := range e.Session.Graph().Referrers(fp) {
		out.ReferencedBy = append(out.ReferencedBy, referrerJSON{From: edge.From.String(), Label: edge.Label})
	}
	return out
}

func showText(r *output.Renderer, out showOutput) {
	styles := r.Styles()
	r.Println("")
	r.Header(1, out.Fingerprint)
	r.KeyValue("Logical file", out.LogicalFile)
	r.KeyValue("Variant", out.Variant)
	r.Println("")

	if len(out.Attributes) > 0 {
		r.Header(2, "Attributes")
		r.Table([]string{"Label", "Value", "Unit"}, attributeRows(out.Attributes))
		r.Println("")
	}

	if len(out.Stash) > 0 {
		r.Header(2, "Stash")
		r.Table([]string{"Label", "Values", "Unit"}, attributeRows(out.Stash))
		r.Println("")
	}

	if len(out.ReferencedBy) == 0 {
		r.Muted("Not referenced by any object")
		return
	}
	r.Header(2, fmt.Sprintf("Referenced by (%d)", len(out.ReferencedBy)))
	for _, ref := range out.ReferencedBy {
		r.Printf("  %s %s\n", styles.Object.Render(ref.From), styles.Muted.Render(ref.Label))
	}
}

func attributeRows(attrs map[string]attributeJSON) [][]any {
	labels := make([]string, 0, len(attrs))
	for label := range attrs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([][]any, 0, len(labels))
	for _, label := range labels {
		a := attrs[label]
		rows = append(rows, []any{label, formatValue(a.Value), a.Unit})
	}
	return rows
}
