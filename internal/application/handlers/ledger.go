package handlers

import (
	"context"
	"fmt"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/ports"
	"github.com/lucky83149028/CarShop/internal/domain/services"
)

// LedgerHandler orchestrates ledger mutations at the application layer:
// it runs the operation and, on success, persists the resulting snapshot.
// A nil store means in-memory only.
type LedgerHandler struct {
	ledger *services.Ledger
	store  ports.LedgerStore
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger *services.Ledger, store ports.LedgerStore) *LedgerHandler {
	return &LedgerHandler{
		ledger: ledger,
		store:  store,
	}
}

// HandleMint mints a new car to the administrator and returns its id.
func (h *LedgerHandler) HandleMint(ctx context.Context, caller entities.Identity, price uint64) (uint64, error) {
	id, err := h.ledger.AddNewCar(caller, price)
	if err != nil {
		return 0, err
	}
	if err := h.persist(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// HandleSell relays a sale of car id to the buyer.
func (h *LedgerHandler) HandleSell(ctx context.Context, caller, to entities.Identity, id uint64) error {
	if err := h.ledger.SellCar(caller, to, id); err != nil {
		return err
	}
	return h.persist(ctx)
}

// HandleRename renames a car.
func (h *LedgerHandler) HandleRename(ctx context.Context, caller entities.Identity, id uint64, newName string) error {
	if err := h.ledger.ChangeName(caller, id, newName); err != nil {
		return err
	}
	return h.persist(ctx)
}

// HandleApprove sets a car's delegate.
func (h *LedgerHandler) HandleApprove(ctx context.Context, caller, delegate entities.Identity, id uint64) error {
	if err := h.ledger.Approve(caller, delegate, id); err != nil {
		return err
	}
	return h.persist(ctx)
}

// HandleSetOperator grants or revokes a blanket operator delegation.
func (h *LedgerHandler) HandleSetOperator(ctx context.Context, caller, operator entities.Identity, approved bool) error {
	if err := h.ledger.SetApprovalForAll(caller, operator, approved); err != nil {
		return err
	}
	return h.persist(ctx)
}

// HandleTransfer moves a car between owners.
func (h *LedgerHandler) HandleTransfer(ctx context.Context, caller, from, to entities.Identity, id uint64) error {
	if err := h.ledger.TransferFrom(caller, from, to, id); err != nil {
		return err
	}
	return h.persist(ctx)
}

// HandleSafeTransfer moves a car and runs the recipient acknowledgment.
func (h *LedgerHandler) HandleSafeTransfer(ctx context.Context, caller, from, to entities.Identity, id uint64, data []byte) error {
	if err := h.ledger.SafeTransferFrom(caller, from, to, id, data); err != nil {
		return err
	}
	return h.persist(ctx)
}

func (h *LedgerHandler) persist(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	if err := h.store.Save(ctx, h.ledger.Snapshot()); err != nil {
		return fmt.Errorf("saving ledger snapshot: %w", err)
	}
	return nil
}
