package entities

import "time"

// Event kinds emitted by the ledger.
const (
	EventTransfer       = "transfer"
	EventApproval       = "approval"
	EventApprovalForAll = "approval_for_all"
	EventNameChange     = "name_change"
	EventSold           = "sold"
)

// Event is a journaled ledger notification. Events fire on success only and
// are never retried; the journal is an observer, not part of ledger state.
type Event struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
