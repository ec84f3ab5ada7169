package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a dlisgraph project",
		Long: `Initialize a dlisgraph project with a commented dlisgraph.yaml.

Use --example to also write a sample record dump and a configuration that
binds its vendor record type, ready for 'dlisgraph inspect'.`,
		Example: `  # Initialize in current directory
  dlisgraph init

  # Initialize with a sample dump
  dlisgraph init --example

  # Initialize in a new directory
  dlisgraph init my-project --example

  # Force overwrite existing config
  dlisgraph init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			r := NewCommandContext(cmd).Renderer
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Also create a sample record dump")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	sc, err := writeTemplate(template, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	r.Header(2, "Configuration")
	for _, f := range sc.Config {
		r.Printf("  ✓ %s\n", f)
	}
	if len(sc.Dumps) > 0 {
		r.Println("")
		r.Header(2, "Dumps")
		for _, f := range sc.Dumps {
			r.Printf("  ✓ %s\n", f)
		}
	}
	for _, f := range sc.Kept {
		r.Muted("  kept existing " + f)
	}

	r.Println("")
	r.Success("dlisgraph project initialized!")
	r.Println("")
	r.Println("Next steps:")
	if template == "example" {
		r.Println("  1. Run 'dlisgraph inspect dumps/example.yaml' to summarize the sample")
		r.Println("  2. Run 'dlisgraph show dumps/example.yaml CHANNEL GR' to see one object")
		r.Println("  3. Run 'dlisgraph catalog dumps/example.yaml' to save it")
		return nil
	}
	r.Println("  1. Bind vendor record types under types: in dlisgraph.yaml")
	r.Println("  2. Run 'dlisgraph inspect <dump>' to load a record dump")
	return nil
}
