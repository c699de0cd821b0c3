package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/infrastructure/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long: `Run the HTTP API. Callers declare their identity with the
X-Caller header; authorization happens inside the ledger.

Examples:
  carshop serve
  carshop serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to the configured http.addr)")

	return cmd
}

func runServe(addr string) error {
	return withDeps(func(d *Deps) error {
		if addr == "" {
			addr = d.Config.HTTP.Addr
		}

		server := httpapi.NewServer(d.Ledger, d.Query)
		fmt.Printf("Serving ledger on %s (administrator: %s)\n", addr, d.Admin)

		if err := server.Run(addr); err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
}
