package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/storage"
	"github.com/matzehuels/gridboard/pkg/store"
)

// stateCommand creates the command group managing the persisted record.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage the persisted dashboard record",
	}

	cmd.AddCommand(c.statePathCommand())
	cmd.AddCommand(c.stateExportCommand())
	cmd.AddCommand(c.stateImportCommand())
	cmd.AddCommand(c.stateClearCommand())

	return cmd
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the dashboard record is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "backend", cfg.Storage.Backend)
			printKeyValue(w, "key", cfg.Storage.Key)
			if loc := recordLocation(cfg); loc != "" {
				printKeyValue(w, "location", loc)
			}
			return nil
		},
	}
}

// recordLocation describes where the configured backend keeps its data.
func recordLocation(cfg *config.Config) string {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir, _ = storage.DefaultDir()
	}
	switch cfg.Storage.Backend {
	case storage.BackendFile, "":
		if dir == "" {
			return ""
		}
		return filepath.Join(dir, cfg.Storage.Key+".json")
	case storage.BackendSQLite:
		if cfg.Storage.SQLite.Path != "" {
			return cfg.Storage.SQLite.Path
		}
		return filepath.Join(dir, "gridboard.db")
	case storage.BackendRedis:
		return "redis://" + cfg.Storage.Redis.Addr + "/" + cfg.Storage.Redis.Prefix + cfg.Storage.Key
	case storage.BackendMongo:
		return cfg.Storage.Mongo.Database + "." + cfg.Storage.Mongo.Collection
	}
	return ""
}

// stateExportCommand creates the "state export" subcommand.
func (c *CLI) stateExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard record as JSON",
		Long: `Write the dashboard record as JSON.

The exported record is the repaired state as the store sees it, in the same
format the backends persist. It can be loaded elsewhere with 'state import'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				data, err := store.EncodeRecord(s.store.State(), s.cfg.Dashboard.DefaultChart)
				if err != nil {
					return err
				}
				if output == "" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess(cmd.OutOrStdout(), "Exported %d tabs to %s", len(s.store.State().Tabs), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// stateImportCommand creates the "state import" subcommand.
func (c *CLI) stateImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dashboard record with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	st, err := store.DecodeRecord(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	b, err := c.openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	// Saving through the persister re-encodes the record in the current
	// format, so older records are upgraded on import.
	if err := store.NewRecordPersister(b, cfg.Storage.Key).Save(ctx, st); err != nil {
		return err
	}
	printSuccess(w, "Imported %d tabs from %s", len(st.Tabs), path)
	return nil
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the dashboard record",
		Long: `Delete the dashboard record.

The next run starts from the default dashboard. Unlike 'layout reset', nothing
is written until the dashboard is changed again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			b, err := c.openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Delete(cmd.Context(), cfg.Storage.Key); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", cfg.Storage.Key)
			}
			printSuccess(cmd.OutOrStdout(), "Cleared %s from %s storage", cfg.Storage.Key, cfg.Storage.Backend)
			return nil
		},
	}
}
