package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a car",
		Long: `Rename a car. Administrator only. Names are 1-25 bytes of
alphanumerics and single spaces, unique case-insensitively across all cars.

Examples:
  carshop rename 0 "Tesla Model 3"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid car id %q", args[0])
			}
			return runRename(cmd, id, args[1])
		},
	}

	return cmd
}

func runRename(cmd *cobra.Command, id uint64, name string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if err := d.Ledger.HandleRename(ctx, callerOr(d.Admin), id, name); err != nil {
			return fmt.Errorf("renaming car %d: %w", id, err)
		}

		fmt.Printf("Renamed car %d to %q\n", id, name)
		return nil
	})
}
