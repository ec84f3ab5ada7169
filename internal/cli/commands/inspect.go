package commands

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/dlisgraph/internal/batch"
	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/linker"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	rf := &registryFlags{}
	cmd := &cobra.Command{
		Use:   "inspect <dump>",
		Short: "Load a dump and summarize its object graph",
		Long: `Load every logical file of a record dump, build and link its objects,
and print per-type object counts, unknown record types and warnings.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: JSON

Use --output to override: auto, text, json`,
		Example: `  # Summarize a dump
  dlisgraph inspect well.yaml

  # Parse a vendor record type as a channel
  dlisgraph inspect well.yaml --bind 440-CHANNEL=CHANNEL

  # Keep a record type out of the typed views
  dlisgraph inspect well.yaml --unbind TOOL --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], rf)
		},
	}
	rf.register(cmd)
	return cmd
}

// typeSummary is one record type of a logical file.
type typeSummary struct {
	Type    string `json:"type"`
	Variant string `json:"variant"`
	Objects int    `json:"objects"`
}

// fileSummary is one inspected logical file.
type fileSummary struct {
	Name         string           `json:"name"`
	Records      int              `json:"records"`
	Objects      int              `json:"objects"`
	Duplicates   int              `json:"duplicates"`
	Types        []typeSummary    `json:"types"`
	UnknownTypes []string         `json:"unknown_types"`
	Link         linkSummary      `json:"link"`
	Warnings     []diagnosticJSON `json:"warnings"`
}

// linkSummary counts the outcomes of the last link pass.
type linkSummary struct {
	Resolved   int `json:"resolved"`
	Literals   int `json:"literals"`
	Dangling   int `json:"dangling"`
	Mismatched int `json:"mismatched"`
}

func toLinkSummary(st linker.Stats) linkSummary {
	return linkSummary{Resolved: st.Resolved, Literals: st.Literals, Dangling: st.Dangling, Mismatched: st.Mismatched}
}

// inspectOutput is the JSON form of inspect.
type inspectOutput struct {
	Source       string        `json:"source"`
	LogicalFiles []fileSummary `json:"logical_files"`
}

func runInspect(cmd *cobra.Command, path string, rf *registryFlags) error {
	cmdCtx := NewCommandContext(cmd)
	_, entries, err := cmdCtx.LoadDump(cmd.Context(), path, rf)
	if err != nil {
		return err
	}

	out := inspectOutput{Source: path, LogicalFiles: make([]fileSummary, 0, len(entries))}
	for _, e := range entries {
		out.LogicalFiles = append(out.LogicalFiles, summarize(e))
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}
	inspectText(r, out)
	return nil
}

func summarize(e *batch.Entry) fileSummary {
	sess := e.Session
	set := sess.Objects()
	stats := sess.Stats()

	s := fileSummary{
		Name:         e.Label(),
		Records:      stats.Records,
		Objects:      stats.Objects,
		Duplicates:   stats.Duplicates,
		UnknownTypes: set.UnknownTypes(),
		Link:         toLinkSummary(stats.Link),
		Warnings:     toDiagnosticJSON(sess.Warnings()),
	}
	if s.UnknownTypes == nil {
		s.UnknownTypes = []string{}
	}
	counts := set.Counts()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		objs := set.AllOfType(t)
		s.Types = append(s.Types, typeSummary{
			Type:    t,
			Variant: objs[0].Variant().Name,
			Objects: counts[t],
		})
	}
	return s
}

func inspectText(r *output.Renderer, out inspectOutput) {
	styles := r.Styles()
	for _, f := range out.LogicalFiles {
		r.Println("")
		r.Header(1, fmt.Sprintf("%s (%s)", f.Name, out.Source))
		r.KeyValue("Records", f.Records)
		r.KeyValue("Objects", f.Objects)
		if f.Duplicates > 0 {
			r.KeyValue("Duplicates", f.Duplicates)
		}
		r.KeyValue("Links", fmt.Sprintf("%d resolved, %d literal, %d dangling, %d mismatched",
			f.Link.Resolved, f.Link.Literals, f.Link.Dangling, f.Link.Mismatched))
		r.Println("")

		if len(f.Types) > 0 {
			rows := make([][]any, 0, len(f.Types))
			for _, t := range f.Types {
				rows = append(rows, []any{t.Type, t.Variant, t.Objects})
			}
			r.Table([]string{"Type", "Variant", "Objects"}, rows)
			r.Println("")
		}

		if len(f.UnknownTypes) > 0 {
			r.Header(2, fmt.Sprintf("Unknown types (%d)", len(f.UnknownTypes)))
			for _, t := range f.UnknownTypes {
				r.Printf("  - %s\n", t)
			}
			r.Println("")
		}

		if len(f.Warnings) == 0 {
			r.Success("No warnings")
			continue
		}
		r.Header(2, fmt.Sprintf("Warnings (%d)", len(f.Warnings)))
		for _, w := range f.Warnings {
			loc := w.Fingerprint
			if loc == "" {
				loc = w.Type
			}
			if w.Label != "" {
				loc += "." + w.Label
			}
			r.Printf("  %s %s %s\n", styles.Warning.Render(w.Code), styles.Object.Render(loc), w.Message)
		}
	}
}
