package entities

// Car is a uniquely identified inventory item tracked by the ledger.
// Identifiers are assigned densely from 0 in mint order and never reused.
type Car struct {
	ID       uint64   `json:"id"`
	Owner    Identity `json:"owner"`
	Price    uint64   `json:"price"`              // set once at mint, immutable afterwards
	Name     string   `json:"name,omitempty"`     // stored verbatim; uniqueness is on the folded form
	Approved Identity `json:"approved,omitempty"` // per-car delegate, cleared on every ownership change
}

// OperatorGrant records a blanket delegation from an owner to an operator,
// independent of any single car.
type OperatorGrant struct {
	Owner    Identity `json:"owner"`
	Operator Identity `json:"operator"`
}

// Snapshot is the full persistable state of a ledger: the administrator,
// every minted car in id order, and all active operator grants. Holdings,
// the name reservation set and the per-owner indices are derived from it.
type Snapshot struct {
	Admin     Identity        `json:"admin"`
	Cars      []Car           `json:"cars"`
	Operators []OperatorGrant `json:"operators"`
}
