package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func newTransferCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "transfer <id>",
		Short: "Transfer a car between owners",
		Long: `Move a car from its current owner to another identity. The
caller must be the owner, the car's delegate, or an operator of the owner.

Examples:
  carshop transfer --caller 0xowner --from 0xowner --to 0xbuyer 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid car id %q", args[0])
			}
			return runTransfer(cmd, from, to, id)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Current owner identity (required)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient identity (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runTransfer(cmd *cobra.Command, from, to string, id uint64) error {
	ctx := cmd.Context()

	caller, err := requireCaller()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Ledger.HandleTransfer(ctx, caller, entities.Identity(from), entities.Identity(to), id); err != nil {
			return fmt.Errorf("transferring car %d: %w", id, err)
		}

		fmt.Printf("Transferred car %d from %s to %s\n", id, from, to)
		return nil
	})
}
