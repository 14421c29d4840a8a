package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/store"
)

// tabCommand creates the tab command group.
func (c *CLI) tabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: "List and switch dashboard tabs",
	}

	cmd.AddCommand(c.tabListCommand())
	cmd.AddCommand(c.tabUseCommand())

	return cmd
}

// tabListCommand creates the "tab list" subcommand.
func (c *CLI) tabListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tabs with their widget counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				fmt.Fprintln(cmd.OutOrStdout(), tabsTable(s.store))
				return nil
			})
		},
	}
}

func tabsTable(st *store.Store) string {
	active := st.ActiveTab()
	state := st.State()

	var rows [][]string
	activeRow := -1
	for i, t := range st.Tabs() {
		marker := ""
		if t.ID == active {
			marker = iconActive
			activeRow = i
		}
		count := 0
		if tab, ok := state.Tabs[t.ID]; ok {
			count = len(tab.Keys)
		}
		rows = append(rows, []string{marker, t.ID, t.Name, t.Value, fmt.Sprint(count)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Value", "Widgets").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == activeRow:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// tabUseCommand creates the "tab use" subcommand.
func (c *CLI) tabUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a tab the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *session) error {
				if err := s.store.SetActiveTab(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Active tab is now %s (%s)", args[0], tabName(s.store.Tabs(), args[0]))
				return nil
			})
		},
	}
}
