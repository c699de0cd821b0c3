package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func newSellCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "sell <id>",
		Short: "Sell a car to a buyer",
		Long: `Relay a sale of a car to the given buyer. Administrator only;
the administrator must be owner, delegate or operator for the car.

Examples:
  carshop sell --to 0xbuyer 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid car id %q", args[0])
			}
			return runSell(cmd, to, id)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Buyer identity (required)")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runSell(cmd *cobra.Command, to string, id uint64) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if err := d.Ledger.HandleSell(ctx, callerOr(d.Admin), entities.Identity(to), id); err != nil {
			return fmt.Errorf("selling car %d: %w", id, err)
		}

		fmt.Printf("Sold car %d to %s\n", id, to)
		return nil
	})
}
