package ports

import (
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// Receiver is the recipient-awareness protocol consulted by safe transfers.
// It is invoked strictly after all ledger state mutations are committed, so
// an implementation that calls back into the ledger observes consistent
// post-transfer state. A non-nil error rejects the transfer and the ledger
// compensates by moving the car back.
type Receiver interface {
	OnCarReceived(operator, from, to entities.Identity, id uint64, data []byte) error
}
