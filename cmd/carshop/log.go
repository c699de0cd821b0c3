package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the notification journal",
		Long: `Show the most recent ledger notifications, newest first.

Examples:
  carshop log
  carshop log --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to show")

	return cmd
}

func runLog(cmd *cobra.Command, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		events, err := d.Store.Events(ctx, limit)
		if err != nil {
			return fmt.Errorf("reading journal: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events recorded.")
			return nil
		}

		for _, ev := range events {
			fmt.Printf("  %s  %-16s  %v\n", ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Kind, ev.Details)
		}

		return nil
	})
}
