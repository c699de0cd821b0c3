package ports

import (
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// Notifier receives ledger notifications. The ledger fires notifications
// after an operation has fully committed and never retries them; a failing
// notifier must not affect ledger state, so the methods return nothing.
type Notifier interface {
	// Transfer fires on every ownership change, including mint, where from
	// is the zero identity.
	Transfer(from, to entities.Identity, id uint64)

	// Approval fires when a per-car delegate is set.
	Approval(owner, delegate entities.Identity, id uint64)

	// ApprovalForAll fires when a blanket operator delegation is set or cleared.
	ApprovalForAll(owner, operator entities.Identity, approved bool)

	// NameChange fires when a car is renamed.
	NameChange(id uint64, newName string)

	// Sold fires on an administrator-relayed sale, after the Transfer notification.
	Sold(to entities.Identity, id uint64)
}
