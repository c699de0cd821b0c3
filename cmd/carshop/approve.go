package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func newApproveCmd() *cobra.Command {
	var delegate string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Set a car's delegate",
		Long: `Grant a single identity the right to transfer one car. The
caller must be the car's owner or one of the owner's operators.

Examples:
  carshop approve --caller 0xowner --delegate 0xdealer 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid car id %q", args[0])
			}
			return runApprove(cmd, delegate, id)
		},
	}

	cmd.Flags().StringVar(&delegate, "delegate", "", "Delegate identity (required)")
	cmd.MarkFlagRequired("delegate")

	return cmd
}

func runApprove(cmd *cobra.Command, delegate string, id uint64) error {
	ctx := cmd.Context()

	caller, err := requireCaller()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Ledger.HandleApprove(ctx, caller, entities.Identity(delegate), id); err != nil {
			return fmt.Errorf("approving delegate for car %d: %w", id, err)
		}

		fmt.Printf("Approved %s for car %d\n", delegate, id)
		return nil
	})
}
