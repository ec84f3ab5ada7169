package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/dlisgraph/internal/batch"
	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/config"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/rawfile"
	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/internal/variants"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger the
// root command stored in cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.FromContext(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// NewRegistry builds a session registry: built-in bindings, then the
// config file's customizations, then the command's overrides.
func (c *CommandContext) NewRegistry(rf *registryFlags) (*registry.Registry, error) {
	reg := registry.NewDefault()
	if err := c.Cfg.Apply(reg); err != nil {
		return nil, err
	}
	if rf != nil {
		if err := rf.apply(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadDump reads the dump at path and loads each logical file into its own
// session.
func (c *CommandContext) LoadDump(ctx context.Context, path string, rf *registryFlags) (*rawfile.File, []*batch.Entry, error) {
	f, err := rawfile.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	entries, err := batch.Load(ctx, f, batch.Config{
		Registry:  func() (*registry.Registry, error) { return c.NewRegistry(rf) },
		Encodings: c.Cfg.Encodings,
		Logger:    c.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return f, entries, nil
}

// registryFlags are the per-invocation --bind and --unbind overrides.
type registryFlags struct {
	bind   []string
	unbind []string
}

func (rf *registryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&rf.bind, "bind", nil, "Bind a record type to a variant (TYPE=VARIANT, repeatable)")
	cmd.Flags().StringArrayVar(&rf.unbind, "unbind", nil, "Parse a record type as unknown (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("bind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return variantNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func (rf *registryFlags) apply(reg *registry.Registry) error {
	for _, b := range rf.bind {
		recordType, variant, ok := strings.Cut(b, "=")
		recordType, variant = strings.TrimSpace(recordType), strings.TrimSpace(variant)
		if !ok || recordType == "" || variant == "" {
			return fmt.Errorf("invalid --bind %q\nHint: Use TYPE=VARIANT, for example --bind 440-CHANNEL=CHANNEL", b)
		}
		if err := reg.BindName(recordType, variant); err != nil {
			return fmt.Errorf("--bind %s: %w", b, err)
		}
	}
	for _, recordType := range rf.unbind {
		reg.Unbind(strings.TrimSpace(recordType))
	}
	return nil
}

// variantNames lists the variants a record type can be bound to.
func variantNames() []string {
	names := append([]string{object.UnknownName}, variants.Names()...)
	sort.Strings(names)
	return names
}
