package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/charts"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
)

// chartCommand creates the chart command group.
func (c *CLI) chartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Add, remove and inspect charts",
	}

	cmd.AddCommand(c.chartAddCommand())
	cmd.AddCommand(c.chartDeleteCommand())
	cmd.AddCommand(c.chartTypesCommand())
	cmd.AddCommand(c.chartOptionCommand())

	return cmd
}

// chartAddCommand creates the "chart add" subcommand.
func (c *CLI) chartAddCommand() *cobra.Command {
	var (
		breakpoint string
		x, y, w, h int
	)

	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Add a chart to the active tab",
		Long: `Add a chart to the active tab.

The chart is placed at every breakpoint using the row-major flow. Pass --w and
--h (optionally with --x, --y and --breakpoint) to choose its geometry at one
breakpoint instead. Unknown chart types are accepted and rendered as bar
charts.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeChartTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fragment layout.Layouts
			if w > 0 || h > 0 {
				bp, err := layout.ParseBreakpoint(breakpoint)
				if err != nil {
					return err
				}
				fragment = layout.Layouts{bp: {{X: x, Y: y, W: w, H: h, MinW: 2, MinH: 2}}}
			}
			return c.runChartAdd(cmd.Context(), cmd.OutOrStdout(), args[0], fragment)
		},
	}

	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", string(layout.XXL), "breakpoint the geometry applies to")
	cmd.Flags().IntVar(&x, "x", 0, "column")
	cmd.Flags().IntVar(&y, "y", 0, "row")
	cmd.Flags().IntVar(&w, "w", 0, "width in columns")
	cmd.Flags().IntVar(&h, "h", 0, "height in rows")
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", completeBreakpoints)

	return cmd
}

func (c *CLI) runChartAdd(ctx context.Context, w io.Writer, chartType string, fragment layout.Layouts) error {
	registry := charts.Builtin()
	if err := errors.ValidateChartType(chartType); err != nil {
		return err
	}
	if !registry.Known(chartType) {
		msg := fmt.Sprintf("%q is not a known chart type; it will render as %s", chartType, charts.Default)
		if s := registry.Suggest(chartType); len(s) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", joinTypes(s))
		}
		printWarning(w, "%s", msg)
	}

	return c.withStore(ctx, func(s *session) error {
		id, err := s.store.AddChart(ctx, chartType, fragment)
		if err != nil {
			return err
		}
		printSuccess(w, "Added %s chart %s to tab %s", chartType, StyleHighlight.Render(id), s.store.ActiveTab())
		printNextStep(w, "Show it", appName+" layout show")
		return nil
	})
}

// chartDeleteCommand creates the "chart delete" subcommand.
func (c *CLI) chartDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a chart from the active tab",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return c.withStore(cmd.Context(), func(s *session) error {
				removed, err := s.store.DeleteChart(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					printWarning(w, "No chart %s on tab %s; nothing changed", args[0], s.store.ActiveTab())
					return nil
				}
				printSuccess(w, "Removed chart %s from tab %s", args[0], s.store.ActiveTab())
				return nil
			})
		},
	}
}

// chartTypesCommand creates the "chart types" subcommand.
func (c *CLI) chartTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known chart types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), chartTypesTable(charts.Builtin()))
			return nil
		},
	}
}

func chartTypesTable(r *charts.Registry) string {
	var rows [][]string
	for _, t := range r.Types() {
		note := ""
		if t == charts.Default {
			note = "default"
		}
		rows = append(rows, []string{string(t), seriesKind(r.Lookup(string(t))), note})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Series", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 2 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// seriesKind returns the charting-library series type of an option.
func seriesKind(o charts.Option) string {
	series, _ := o["series"].([]any)
	if len(series) == 0 {
		return ""
	}
	first, _ := series[0].(map[string]any)
	kind, _ := first["type"].(string)
	return kind
}

// chartOptionCommand creates the "chart option" subcommand.
func (c *CLI) chartOptionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "option <type|id>",
		Short: "Print the rendering option for a chart type or a chart on the active tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := charts.Builtin()
			arg := args[0]
			if errors.ValidateChartID(arg) != nil {
				if err := errors.ValidateChartType(arg); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), registry.Lookup(arg))
			}
			return c.withStore(cmd.Context(), func(s *session) error {
				tag, err := s.store.ChartType(arg)
				if err != nil {
					return err
				}
				c.Logger.Debug("Resolved chart", "chart", arg, "type", tag, "renders_as", registry.Resolve(tag))
				return writeJSON(cmd.OutOrStdout(), registry.Lookup(tag))
			})
		},
	}
}

func completeChartTypes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	types := charts.Builtin().Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func joinTypes(types []charts.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
