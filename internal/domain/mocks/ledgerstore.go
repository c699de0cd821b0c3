package mocks

import (
	"context"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// LedgerStore is a mock implementation of ports.LedgerStore holding the
// snapshot in memory. Set Err to make every call fail.
type LedgerStore struct {
	Snap  *entities.Snapshot
	Saves int
	Err   error
}

// NewLedgerStore creates a new mock LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// EnsureSchema creates the storage schema if it doesn't exist.
func (m *LedgerStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Save replaces the stored snapshot.
func (m *LedgerStore) Save(_ context.Context, snap *entities.Snapshot) error {
	if m.Err != nil {
		return m.Err
	}
	m.Snap = snap
	m.Saves++
	return nil
}

// Load returns the stored snapshot, nil if none was saved.
func (m *LedgerStore) Load(_ context.Context) (*entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snap, nil
}

// Close closes the store.
func (m *LedgerStore) Close() error {
	return nil
}
