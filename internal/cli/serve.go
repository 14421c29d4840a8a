package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/api"
	"github.com/matzehuels/gridboard/pkg/charts"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout store over HTTP",
		Long: `Serve the layout store over HTTP.

The API exposes the active tab's layouts, chart creation and deletion, tab
switching and the chart option registry as JSON under /api/v1. Every
mutation is persisted before it is acknowledged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	prog := newProgress(c.Logger)
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	prog.done("Store ready", "backend", s.cfg.Storage.Backend, "tabs", len(s.store.TabIDs()))

	if addr == "" {
		addr = s.cfg.Server.Addr
	}
	srv := api.New(s.store, api.Options{Registry: charts.Builtin(), Logger: c.Logger})
	return srv.ListenAndServe(ctx, addr)
}
