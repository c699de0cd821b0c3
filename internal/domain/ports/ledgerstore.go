package ports

import (
	"context"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// LedgerStore persists ledger snapshots. The in-memory ledger remains the
// source of truth; the store makes state durable across process runs.
type LedgerStore interface {
	// EnsureSchema creates the storage schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Save replaces the stored snapshot with the given one.
	Save(ctx context.Context, snap *entities.Snapshot) error

	// Load returns the stored snapshot, or nil if none has been saved yet.
	Load(ctx context.Context) (*entities.Snapshot, error)

	// Close closes the underlying storage.
	Close() error
}
