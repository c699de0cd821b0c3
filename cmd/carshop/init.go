package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/services"
	"github.com/lucky83149028/CarShop/internal/infrastructure/config"
	"github.com/lucky83149028/CarShop/internal/infrastructure/ledgerstore/sqlite"
)

func newInitCmd() *cobra.Command {
	var admin string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new ledger in the current directory",
		Long: `Create the .carshop directory, the configuration file and the
ledger database, and record the administrator identity.

Examples:
  carshop init --admin 0xadmin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), admin)
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "Administrator identity (required)")
	cmd.MarkFlagRequired("admin")

	return cmd
}

func runInit(ctx context.Context, admin string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("config file already exists: %s", config.ConfigFilePath(cwd))
	}

	cfg := config.Default()
	cfg.Admin = admin
	if err := config.Write(cwd, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cfg, err = config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	ledger, err := services.NewLedger(entities.Identity(admin), nil, nil)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := store.Save(ctx, ledger.Snapshot()); err != nil {
		return fmt.Errorf("saving initial snapshot: %w", err)
	}

	fmt.Printf("Initialized ledger in %s (administrator: %s)\n", config.ConfigDir(cwd), admin)
	return nil
}
