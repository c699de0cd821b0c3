package mocks

import (
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// ReceivedCall records one receiver acknowledgment request.
type ReceivedCall struct {
	Operator entities.Identity
	From     entities.Identity
	To       entities.Identity
	ID       uint64
	Data     []byte
}

// Receiver is a mock implementation of ports.Receiver. Set Err to reject
// every safe transfer; set OnCall to observe ledger state mid-acknowledgment.
type Receiver struct {
	Calls  []ReceivedCall
	Err    error
	OnCall func(call ReceivedCall)
}

// NewReceiver creates a new mock Receiver.
func NewReceiver() *Receiver {
	return &Receiver{}
}

// OnCarReceived records the call and returns Err.
func (m *Receiver) OnCarReceived(operator, from, to entities.Identity, id uint64, data []byte) error {
	call := ReceivedCall{Operator: operator, From: from, To: to, ID: id, Data: data}
	m.Calls = append(m.Calls, call)
	if m.OnCall != nil {
		m.OnCall(call)
	}
	return m.Err
}
