package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/application/handlers"
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

func newCarsCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "cars",
		Short: "List cars in the ledger",
		Long: `List every minted car in mint order, or only the cars held by
one owner with --owner.

Examples:
  carshop cars
  carshop cars --owner 0xbuyer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCars(cmd, owner)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only list cars held by this identity")

	return cmd
}

func runCars(cmd *cobra.Command, owner string) error {
	return withDeps(func(d *Deps) error {
		var result *handlers.CarListResult
		var err error

		if owner != "" {
			result, err = d.Query.HandleListByOwner(entities.Identity(owner))
		} else {
			result, err = d.Query.HandleList()
		}

		if err != nil {
			return fmt.Errorf("listing cars: %w", err)
		}

		if len(result.Cars) == 0 {
			fmt.Println("No cars found.")
			return nil
		}

		fmt.Printf("Cars (%d total):\n", result.Total)
		fmt.Println()

		for _, car := range result.Cars {
			name := car.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  %4d  %-25s  price %-8d  owner %s\n", car.ID, name, car.Price, car.Owner)
			if car.Approved != "" {
				fmt.Printf("        approved: %s\n", car.Approved)
			}
		}

		return nil
	})
}
