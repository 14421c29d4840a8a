// Package cli implements the gridboard command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/storage"
	"github.com/matzehuels/gridboard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backend    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridboard keeps responsive dashboard layouts",
		Long: `Gridboard is the layout store behind a tabbed chart dashboard. It keeps
every widget's placement at six responsive breakpoints, serves them over
HTTP and persists them to a file, sqlite, redis or mongo backend.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gridboard/config.toml)")
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "storage backend: file, memory, none, sqlite, redis, mongo")
	_ = root.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return storage.Backends, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.tabCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve config path")
		}
		path = p
	}
	cfg, unknown, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, key := range unknown {
		c.Logger.Warn("Unknown config key", "key", key, "file", path)
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// session is an opened store together with what it needs to shut down.
type session struct {
	cfg     *config.Config
	backend storage.Backend
	store   *store.Store
}

func (s *session) Close() error { return s.backend.Close() }

// openBackend opens the configured storage backend. Remote backends get a
// spinner while they connect.
func (c *CLI) openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	opts := cfg.StorageOptions()
	opts.Logger = c.Logger

	switch opts.Backend {
	case storage.BackendRedis, storage.BackendMongo:
		spin := startSpinner(ctx, os.Stderr, "Connecting to "+opts.Backend+"...")
		b, err := storage.Open(ctx, opts)
		spin.stop()
		return b, err
	}
	return storage.Open(ctx, opts)
}

// openStore loads config, opens the backend and builds the store.
func (c *CLI) openStore(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	b, err := c.openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.New(ctx, store.Options{
		Persister:    store.NewRecordPersister(b, cfg.Storage.Key),
		Logger:       c.Logger,
		DefaultChart: cfg.Dashboard.DefaultChart,
		Tabs:         cfg.Tabs,
	})
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	c.Logger.Debug("Opened store", "backend", storage.Name(b), "key", cfg.Storage.Key, "tab", st.ActiveTab())
	return &session{cfg: cfg, backend: b, store: st}, nil
}

// withStore runs fn against a freshly opened store and closes it afterwards.
func (c *CLI) withStore(ctx context.Context, fn func(*session) error) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
