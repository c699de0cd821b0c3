package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMintCmd() *cobra.Command {
	var price uint64

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a new car to the administrator",
		Long: `Mint a new car. The id is assigned sequentially and ownership
goes to the administrator, who can sell the car on afterwards.

Examples:
  carshop mint --price 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMint(cmd, price)
		},
	}

	cmd.Flags().Uint64Var(&price, "price", 0, "Price recorded at mint")

	return cmd
}

func runMint(cmd *cobra.Command, price uint64) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		id, err := d.Ledger.HandleMint(ctx, callerOr(d.Admin), price)
		if err != nil {
			return fmt.Errorf("minting car: %w", err)
		}

		fmt.Printf("Minted car %d (price %d, owner %s)\n", id, price, d.Admin)
		return nil
	})
}
