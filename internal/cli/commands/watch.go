package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/dlisgraph/internal/batch"
	"github.com/leapstack-labs/dlisgraph/internal/cli/output"
	"github.com/leapstack-labs/dlisgraph/internal/config"
	"github.com/spf13/cobra"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	rf := &registryFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <dump>",
		Short: "Reload a dump whenever it or the configuration changes",
		Long: `Load a dump, print its summary, then keep watching. When the dump changes
it is read and loaded again. When only dlisgraph.yaml changes the retained
records are rebuilt with the new type bindings and schema overrides.

Stop with Ctrl-C.`,
		Example: `  # Watch a dump while editing type bindings in dlisgraph.yaml
  dlisgraph watch well.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], rf, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Wait this long after the last change before reloading")
	rf.register(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, path string, rf *registryFlags, debounce time.Duration) error {
	cmdCtx := NewCommandContext(cmd)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flags := cmd.Root().PersistentFlags()
	w := &Watcher{
		Path:     path,
		Registry: rf,
		Debounce: debounce,
		Cmd:      cmdCtx,
		LoadConfig: func(file string) (*config.Config, error) {
			return config.Load(file, flags)
		},
		OnReload: func(entries []*batch.Entry, err error) {
			renderReload(cmdCtx.Renderer, path, entries, err)
		},
	}
	if err := w.Load(ctx); err != nil {
		return err
	}
	renderReload(cmdCtx.Renderer, path, w.Entries(), nil)
	return w.Run(ctx)
}

func renderReload(r *output.Renderer, path string, entries []*batch.Entry, err error) {
	if err != nil {
		r.Error(err.Error())
		return
	}
	out := inspectOutput{Source: path, LogicalFiles: make([]fileSummary, 0, len(entries))}
	for _, e := range entries {
		out.LogicalFiles = append(out.LogicalFiles, summarize(e))
	}
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(out)
		return
	}
	inspectText(r, out)
	r.Muted(fmt.Sprintf("Watching %s (%s)", path, time.Now().Format(time.TimeOnly)))
}

// Watcher keeps the sessions of one dump current.
type Watcher struct {
	// Path is the dump
	Path string
	// Registry holds the command's --bind/--unbind overrides (optional)
	Registry *registryFlags
	// Debounce delays reloads until writes settle (optional, DefaultDebounce
	// if zero)
	Debounce time.Duration
	// Cmd supplies configuration, logger and renderer
	Cmd *CommandContext
	// LoadConfig rereads the configuration file
	LoadConfig func(file string) (*config.Config, error)
	// OnReload is called after every reload attempt (optional)
	OnReload func(entries []*batch.Entry, err error)

	mu      sync.Mutex
	entries []*batch.Entry
}

// Entries returns the current sessions.
func (w *Watcher) Entries() []*batch.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries
}

// Load reads and loads the dump, replacing the current sessions. On error
// the current sessions are kept.
func (w *Watcher) Load(ctx context.Context) error {
	_, entries, err := w.Cmd.LoadDump(ctx, w.Path, w.Registry)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.entries = entries
	w.mu.Unlock()
	return nil
}

// ReloadConfig rereads the configuration and rebuilds every session from
// its retained records with the new registry customizations. A change of
// encodings needs the raw dump again, so it falls back to Load.
func (w *Watcher) ReloadConfig(ctx context.Context) error {
	cfg, err := w.LoadConfig(w.Cmd.Cfg.File)
	if err != nil {
		return err
	}
	prev := w.Cmd.Cfg
	w.Cmd.Cfg = cfg
	if !slices.Equal(prev.Encodings, cfg.Encodings) {
		w.Cmd.Logger.Debug("encodings changed, reading dump again")
		return w.Load(ctx)
	}

	for _, e := range w.Entries() {
		reg := e.Session.Registry()
		reg.Reset()
		if err := cfg.Apply(reg); err != nil {
			return err
		}
		if w.Registry != nil {
			if err := w.Registry.apply(reg); err != nil {
				return err
			}
		}
		if err := e.Session.Reload(); err != nil {
			return fmt.Errorf("%s: %w", e.Label(), err)
		}
	}
	return nil
}

// configPath is the configuration file to watch. Without one, the file that
// would be picked up in the project root is watched so creating it counts.
func (w *Watcher) configPath() string {
	if w.Cmd.Cfg.File != "" {
		return w.Cmd.Cfg.File
	}
	root := w.Cmd.Cfg.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, config.ConfigFileName)
}

// Run watches the dump and the configuration file until ctx is done.
// Directories are watched rather than files so editors that replace files
// on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dumpPath, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	cfgPath, err := filepath.Abs(w.configPath())
	if err != nil {
		return err
	}
	for _, dir := range uniqueDirs(dumpPath, cfgPath) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.Cmd.Logger

	var (
		debounceTimer *time.Timer
		pendingMu     sync.Mutex
		dumpChanged   bool
		cfgChanged    bool
		reloadMu      sync.Mutex
	)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		// Wait for a reload in flight.
		reloadMu.Lock()
		reloadMu.Unlock() //nolint:staticcheck // SA2001: used as a barrier
	}()

	reload := func() {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		pendingMu.Lock()
		dump, cfg := dumpChanged, cfgChanged
		dumpChanged, cfgChanged = false, false
		pendingMu.Unlock()

		if ctx.Err() != nil {
			return
		}

		var err error
		switch {
		case cfg:
			logger.Debug("config changed, reloading", "file", cfgPath)
			err = w.ReloadConfig(ctx)
			if err == nil && dump {
				err = w.Load(ctx)
			}
		case dump:
			logger.Debug("dump changed, reloading", "file", dumpPath)
			err = w.Load(ctx)
		default:
			return
		}
		if err != nil {
			logger.Error("reload failed", "error", err)
		}
		if w.OnReload != nil {
			w.OnReload(w.Entries(), err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			name := filepath.Clean(event.Name)
			pendingMu.Lock()
			switch name {
			case dumpPath:
				dumpChanged = true
			case cfgPath:
				cfgChanged = true
			default:
				pendingMu.Unlock()
				continue
			}
			pendingMu.Unlock()

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func uniqueDirs(paths ...string) []string {
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
