package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lucky83149028/CarShop/internal/application/handlers"
	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/services"
	"github.com/lucky83149028/CarShop/internal/infrastructure/config"
	"github.com/lucky83149028/CarShop/internal/infrastructure/ledgerstore/sqlite"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	Config *config.Config
	Ledger *handlers.LedgerHandler
	Query  *handlers.QueryHandler
	Store  *sqlite.Repository
	Admin  entities.Identity
}

// withDeps loads config, opens the store, restores the ledger, then calls
// the provided function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger snapshot: %w", err)
	}

	var ledger *services.Ledger
	if snap == nil {
		// Fresh database: the administrator comes from configuration.
		ledger, err = services.NewLedger(entities.Identity(cfg.Admin), store, nil)
	} else {
		ledger, err = services.RestoreLedger(snap, store, nil)
	}
	if err != nil {
		return fmt.Errorf("building ledger: %w", err)
	}

	deps := &Deps{
		Config: cfg,
		Ledger: handlers.NewLedgerHandler(ledger, store),
		Query:  handlers.NewQueryHandler(ledger),
		Store:  store,
		Admin:  ledger.Admin(),
	}

	return fn(deps)
}

// callerOr returns the --caller flag value, falling back to the given
// identity when the flag was not set.
func callerOr(fallback entities.Identity) entities.Identity {
	if globalCaller == "" {
		return fallback
	}
	return entities.Identity(globalCaller)
}

// requireCaller returns the --caller flag value or an error when unset.
func requireCaller() (entities.Identity, error) {
	if globalCaller == "" {
		return entities.ZeroIdentity, fmt.Errorf("caller is required (use --caller flag)")
	}
	return entities.Identity(globalCaller), nil
}
