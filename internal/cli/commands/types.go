package commands

import (
	"fmt"

	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	rf := &registryFlags{}
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List record type bindings",
		Long: `List which variant parses each record type once the configuration
file and any --bind/--unbind overrides are applied. Record types not listed
are parsed as unknown.`,
		Example: `  # Show the effective bindings
  dlisgraph types

  # Preview an override
  dlisgraph types --bind 440-CHANNEL=CHANNEL --unbind TOOL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTypes(cmd, rf)
		},
	}
	rf.register(cmd)
	return cmd
}

// bindingJSON is the JSON form of one binding.
type bindingJSON struct {
	RecordType string `json:"record_type"`
	Variant    string `json:"variant"`
	Builtin    bool   `json:"builtin"`
}

func runTypes(cmd *cobra.Command, rf *registryFlags) error {
	cmdCtx := NewCommandContext(cmd)
	reg, err := cmdCtx.NewRegistry(rf)
	if err != nil {
		return err
	}

	bindings := reg.Bindings()
	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]bindingJSON, 0, len(bindings))
		for _, b := range bindings {
			out = append(out, bindingJSON{RecordType: b.RecordType, Variant: b.Variant, Builtin: b.Builtin})
		}
		return r.JSON(out)
	}

	r.Println("")
	r.Header(1, fmt.Sprintf("Record types (%d bound)", len(bindings)))
	rows := make([][]any, 0, len(bindings))
	for _, b := range bindings {
		origin := "config"
		if b.Builtin {
			origin = "builtin"
		}
		rows = append(rows, []any{b.RecordType, b.Variant, origin})
	}
	r.Table([]string{"Record type", "Variant", "Source"}, rows)
	if cmdCtx.Cfg.File != "" {
		r.Muted("Configuration: " + cmdCtx.Cfg.File)
	}
	return nil
}
