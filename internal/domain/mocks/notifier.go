package mocks

import (
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// TransferEvent records a Transfer notification.
type TransferEvent struct {
	From entities.Identity
	To   entities.Identity
	ID   uint64
}

// ApprovalEvent records an Approval notification.
type ApprovalEvent struct {
	Owner    entities.Identity
	Delegate entities.Identity
	ID       uint64
}

// ApprovalForAllEvent records an ApprovalForAll notification.
type ApprovalForAllEvent struct {
	Owner    entities.Identity
	Operator entities.Identity
	Approved bool
}

// NameChangeEvent records a NameChange notification.
type NameChangeEvent struct {
	ID   uint64
	Name string
}

// SoldEvent records a Sold notification.
type SoldEvent struct {
	To entities.Identity
	ID uint64
}

// Notifier is a mock implementation of ports.Notifier that records every
// notification it receives.
type Notifier struct {
	Transfers       []TransferEvent
	Approvals       []ApprovalEvent
	OperatorChanges []ApprovalForAllEvent
	NameChanges     []NameChangeEvent
	Sales           []SoldEvent
}

// NewNotifier creates a new mock Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Transfer records a Transfer notification.
func (m *Notifier) Transfer(from, to entities.Identity, id uint64) {
	m.Transfers = append(m.Transfers, TransferEvent{From: from, To: to, ID: id})
}

// Approval records an Approval notification.
func (m *Notifier) Approval(owner, delegate entities.Identity, id uint64) {
	m.Approvals = append(m.Approvals, ApprovalEvent{Owner: owner, Delegate: delegate, ID: id})
}

// ApprovalForAll records an ApprovalForAll notification.
func (m *Notifier) ApprovalForAll(owner, operator entities.Identity, approved bool) {
	m.OperatorChanges = append(m.OperatorChanges, ApprovalForAllEvent{Owner: owner, Operator: operator, Approved: approved})
}

// NameChange records a NameChange notification.
func (m *Notifier) NameChange(id uint64, newName string) {
	m.NameChanges = append(m.NameChanges, NameChangeEvent{ID: id, Name: newName})
}

// Sold records a Sold notification.
func (m *Notifier) Sold(to entities.Identity, id uint64) {
	m.Sales = append(m.Sales, SoldEvent{To: to, ID: id})
}
