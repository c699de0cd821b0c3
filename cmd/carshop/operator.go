package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func newOperatorCmd() *cobra.Command {
	var operator string
	var revoke bool

	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Grant or revoke a blanket operator delegation",
		Long: `Grant an identity the right to act on every car the caller
owns, or revoke a previous grant with --revoke.

Examples:
  carshop operator --caller 0xowner --operator 0xdealer
  carshop operator --caller 0xowner --operator 0xdealer --revoke`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(cmd, operator, !revoke)
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "Operator identity (required)")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Revoke the delegation instead of granting it")
	cmd.MarkFlagRequired("operator")

	return cmd
}

func runOperator(cmd *cobra.Command, operator string, approved bool) error {
	ctx := cmd.Context()

	caller, err := requireCaller()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Ledger.HandleSetOperator(ctx, caller, entities.Identity(operator), approved); err != nil {
			return fmt.Errorf("setting operator: %w", err)
		}

		if approved {
			fmt.Printf("Granted operator %s for %s\n", operator, caller)
		} else {
			fmt.Printf("Revoked operator %s for %s\n", operator, caller)
		}
		return nil
	})
}
