package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/contentops/benchconsole/internal/webapi"
	"github.com/contentops/benchconsole/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		port    int
		open    bool
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored results over a local REST API",
		Long: `Serve the locally stored results over a read-only REST API bound to
127.0.0.1.

Endpoints:
  GET /api/health
  GET /api/summary
  GET /api/runs?sort=timestamp|tokens|cost|questions|score&order=asc|desc
  GET /api/runs/{id}       aggregated view of one run
  GET /api/compare?days=N  per-model comparison over the last N days`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}
			store, err := a.results()
			if err != nil {
				return err
			}
			defer store.Close()
			classifier, err := a.classifier()
			if err != nil {
				return err
			}

			srv, err := webserver.New(webserver.Config{
				Port:           port,
				Store:          webapi.NewFileStore(store, a.aggregator(), classifier),
				HistoryDays:    a.cfg.History.WindowDays,
				AllowedOrigins: origins,
				OpenBrowser:    open,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, func(addr string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "serving %s on http://%s\n", store.Dir(), addr) //nolint:errcheck
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the run list in a browser")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "Origins allowed to call the API from a browser")
	return cmd
}
