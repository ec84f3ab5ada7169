package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/dlisgraph/internal/batch"
	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/state"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand() *cobra.Command {
	rf := &registryFlags{}
	cmd := &cobra.Command{
		Use:   "catalog <dump>",
		Short: "Persist a dump's linked object graph",
		Long: `Load a dump and save every logical file as one load in the SQLite
catalog: its objects (attributes and stash as JSON), the resolved links
between them and the diagnostics of the load.

The catalog lives at state_path (default .dlisgraph/catalog.db), or at
--state when given.`,
		Example: `  # Save a dump
  dlisgraph catalog well.yaml

  # Save into a specific catalog
  dlisgraph catalog well.yaml --state /tmp/catalog.db

  # List saved loads
  dlisgraph catalog list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogSave(cmd, args[0], rf)
		},
	}
	rf.register(cmd)

	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogDeleteCommand())
	return cmd
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved loads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogList(cmd)
		},
	}
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <load-id>",
		Short: "Delete a saved load and everything recorded with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogDelete(cmd, args[0])
		},
	}
}

// loadJSON is the JSON form of a saved load.
type loadJSON struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
	Objects   int       `json:"objects"`
	Warnings  int       `json:"warnings"`
}

func toLoadJSON(l state.Load) loadJSON {
	return loadJSON{
		ID:        l.ID,
		Source:    l.Source,
		CreatedAt: l.CreatedAt,
		Records:   l.Records,
		Objects:   l.Objects,
		Warnings:  l.Warnings,
	}
}

// openCatalog opens and migrates the configured catalog.
func openCatalog(cmdCtx *CommandContext) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore()
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	cmdCtx.Logger.Debug("catalog opened", "path", cmdCtx.Cfg.StatePath)
	return store, nil
}

// loadSource names a logical file in the catalog. A dump with a single
// unnamed logical file is recorded under its path alone.
func loadSource(path string, e *batch.Entry, total int) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if total == 1 && e.Name == "" {
		return path
	}
	return path + "#" + e.Label()
}

func runCatalogSave(cmd *cobra.Command, path string, rf *registryFlags) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	_, entries, err := cmdCtx.LoadDump(ctx, path, rf)
	if err != nil {
		return err
	}

	store, err := openCatalog(cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved := make([]loadJSON, 0, len(entries))
	for _, e := range entries {
		snap, err := state.NewSnapshot(loadSource(path, e, len(entries)), e.Session)
		if err != nil {
			return err
		}
		load, err := store.SaveLoad(ctx, snap)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("load saved", "id", load.ID, "source", load.Source, "objects", load.Objects)
		saved = append(saved, toLoadJSON(*load))
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(saved)
	}
	for _, l := range saved {
		r.Success(fmt.Sprintf("Saved %s (%d objects, %d warnings)", l.Source, l.Objects, l.Warnings))
		r.KeyValue("Load", l.ID)
	}
	r.Muted("Catalog: " + cmdCtx.Cfg.StatePath)
	return nil
}

func runCatalogList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	store, err := openCatalog(cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	loads, err := store.ListLoads(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]loadJSON, 0, len(loads))
		for _, l := range loads {
			out = append(out, toLoadJSON(l))
		}
		return r.JSON(out)
	}

	if len(loads) == 0 {
		r.Muted("No loads saved in " + cmdCtx.Cfg.StatePath)
		return nil
	}
	rows := make([][]any, 0, len(loads))
	for _, l := range loads {
		rows = append(rows, []any{l.ID, l.Source, l.CreatedAt.Local().Format(time.DateTime), l.Objects, l.Warnings})
	}
	r.Table([]string{"Load", "Source", "Saved", "Objects", "Warnings"}, rows)
	return nil
}

func runCatalogDelete(cmd *cobra.Command, id string) error {
	cmdCtx := NewCommandContext(cmd)
	store, err := openCatalog(cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteLoad(cmd.Context(), id); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]string{"deleted": id})
	}
	r.Success("Deleted load " + id)
	return nil
}
