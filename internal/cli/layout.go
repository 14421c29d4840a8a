package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/charts"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/store"
)

// layoutCommand creates the layout command group.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and manage widget layouts",
	}

	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutValidateCommand())
	cmd.AddCommand(c.layoutResetCommand())
	cmd.AddCommand(c.layoutWatchCommand())

	return cmd
}

// layoutShowCommand creates the "layout show" subcommand.
func (c *CLI) layoutShowCommand() *cobra.Command {
	var (
		tab        string
		breakpoint string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a tab's widgets at one breakpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := layout.ParseBreakpoint(breakpoint)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				snap := s.store.Snapshot()
				if tab != "" {
					if snap, err = s.store.TabSnapshot(tab); err != nil {
						return err
					}
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), snap)
				}
				printLayout(cmd.OutOrStdout(), snap, bp, tabName(s.store.Tabs(), snap.Tab))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "", "tab to show (default: active tab)")
	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", string(layout.XXL), "breakpoint: xxl, xl, lg, md, sm, xs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", completeBreakpoints)

	return cmd
}

func printLayout(w io.Writer, snap *store.Snapshot, bp layout.Breakpoint, name string) {
	items := snap.Layouts[bp]
	fmt.Fprintln(w, StyleTitle.Render(name)+" "+
		StyleDim.Render(fmt.Sprintf("· tab %s · %s · %d cols · %d widgets", snap.Tab, bp, bp.Cols(), len(items))))
	fmt.Fprintln(w, placementTable(items, snap.Types, -1))
	fmt.Fprintln(w, renderGrid(items, bp.Cols()))
}

// layoutValidateCommand creates the "layout validate" subcommand.
func (c *CLI) layoutValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the persisted record for integrity problems",
		Long: `Check the persisted record for integrity problems.

The record is read as stored, before the repairs applied when the store
opens it. Problems are listed together with the repair that would fix them;
repairs are written back by the next change to the dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, w io.Writer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	b, err := c.openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	p := store.NewRecordPersister(b, cfg.Storage.Key)
	st, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		printInfo(w, "No record stored under %q; the default dashboard will be used", p.Key())
		return nil
	}

	problems := 0
	for _, id := range st.TabIDs() {
		tab := st.Tabs[id]
		known := tab.IDs()
		if err := layout.Validate(tab.Layouts, known); err != nil {
			problems++
			printError(w, "tab %s: %s", id, errors.UserMessage(err))
			_, fixes := layout.Repair(tab.Layouts, known)
			for _, f := range fixes {
				printDetail(w, "%s", f)
			}
			continue
		}
		printSuccess(w, "tab %s: %d widgets", id, len(known))
	}
	if problems > 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "%d of %d tabs need repair", problems, len(st.Tabs))
	}
	return nil
}

// layoutResetCommand creates the "layout reset" subcommand.
func (c *CLI) layoutResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the first-run dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				if err := s.store.Reset(cmd.Context()); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Dashboard reset to defaults")
				return nil
			})
		},
	}
}

// layoutWatchCommand creates the interactive "layout watch" subcommand.
func (c *CLI) layoutWatchCommand() *cobra.Command {
	var breakpoint string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Browse and edit layouts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := layout.ParseBreakpoint(breakpoint)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				m := newWatchModel(cmd.Context(), s.store, charts.Builtin(), bp)
				_, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", string(layout.XXL), "initial breakpoint")
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", completeBreakpoints)
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func completeBreakpoints(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(layout.Breakpoints))
	for i, bp := range layout.Breakpoints {
		names[i] = string(bp)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func tabName(tabs []store.TabInfo, id string) string {
	for _, t := range tabs {
		if t.ID == id {
			return t.Name
		}
	}
	return id
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
