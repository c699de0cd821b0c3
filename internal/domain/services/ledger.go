// Package services holds the ledger state machine and the rules it enforces.
package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/ports"
)

// notification is a pending notifier call, collected while the ledger lock
// is held and fired after it is released.
type notification func(ports.Notifier)

// Ledger tracks which cars exist, who owns each, per-car delegates, blanket
// operator grants, and the case-insensitive name reservation set.
//
// Operations are strictly serialized under a single mutex and commit
// all-or-nothing: every precondition is checked before any index is touched.
// Notifications and the receiver acknowledgment fire after the lock is
// released, so a collaborator that calls back into the ledger observes
// consistent post-operation state.
type Ledger struct {
	mu        sync.Mutex
	admin     entities.Identity
	cars      []*entities.Car                                  // index == car id, dense
	holdings  map[entities.Identity][]uint64                   // owner -> held ids, stable between mutations
	operators map[entities.Identity]map[entities.Identity]bool // owner -> operator -> granted
	reserved  map[string]uint64                                // folded name -> car id

	notifier ports.Notifier
	receiver ports.Receiver
}

// NewLedger creates an empty ledger administered by admin. The notifier and
// receiver may be nil, in which case notifications and safe-transfer
// acknowledgments are skipped.
func NewLedger(admin entities.Identity, notifier ports.Notifier, receiver ports.Receiver) (*Ledger, error) {
	if admin.IsZero() {
		return nil, fmt.Errorf("administrator: %w", entities.ErrZeroIdentity)
	}
	return &Ledger{
		admin:     admin,
		holdings:  make(map[entities.Identity][]uint64),
		operators: make(map[entities.Identity]map[entities.Identity]bool),
		reserved:  make(map[string]uint64),
		notifier:  notifier,
		receiver:  receiver,
	}, nil
}

// RestoreLedger rebuilds a ledger from a snapshot, re-deriving the holdings
// and name reservation indices and rejecting snapshots that violate the
// ledger invariants.
func RestoreLedger(snap *entities.Snapshot, notifier ports.Notifier, receiver ports.Receiver) (*Ledger, error) {
	l, err := NewLedger(snap.Admin, notifier, receiver)
	if err != nil {
		return nil, err
	}
	for i, car := range snap.Cars {
		if car.ID != uint64(i) {
			return nil, fmt.Errorf("snapshot car at position %d has id %d: ids must be dense", i, car.ID)
		}
		if car.Owner.IsZero() {
			return nil, fmt.Errorf("snapshot car %d: owner: %w", car.ID, entities.ErrZeroIdentity)
		}
		if car.Name != "" {
			folded := entities.FoldName(car.Name)
			if other, taken := l.reserved[folded]; taken {
				return nil, fmt.Errorf("snapshot cars %d and %d: %w", other, car.ID, entities.ErrNameTaken)
			}
			l.reserved[folded] = car.ID
		}
		c := car
		l.cars = append(l.cars, &c)
		l.holdings[car.Owner] = append(l.holdings[car.Owner], car.ID)
	}
	for _, g := range snap.Operators {
		if g.Owner.IsZero() || g.Operator.IsZero() {
			return nil, fmt.Errorf("snapshot operator grant: %w", entities.ErrZeroIdentity)
		}
		if l.operators[g.Owner] == nil {
			l.operators[g.Owner] = make(map[entities.Identity]bool)
		}
		l.operators[g.Owner][g.Operator] = true
	}
	return l, nil
}

// Admin returns the administrator identity.
func (l *Ledger) Admin() entities.Identity {
	return l.admin
}

// Snapshot returns a copy of the full ledger state, cars in id order and
// operator grants sorted for determinism.
func (l *Ledger) Snapshot() *entities.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := &entities.Snapshot{Admin: l.admin, Cars: make([]entities.Car, len(l.cars))}
	for i, car := range l.cars {
		snap.Cars[i] = *car
	}
	for owner, ops := range l.operators {
		for op := range ops {
			snap.Operators = append(snap.Operators, entities.OperatorGrant{Owner: owner, Operator: op})
		}
	}
	sort.Slice(snap.Operators, func(i, j int) bool {
		a, b := snap.Operators[i], snap.Operators[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Operator < b.Operator
	})
	return snap
}

// Queries

// OwnerOf returns the current owner of the car.
func (l *Ledger) OwnerOf(id uint64) (entities.Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car, err := l.carByID(id)
	if err != nil {
		return entities.ZeroIdentity, err
	}
	return car.Owner, nil
}

// BalanceOf returns how many cars the identity holds, zero if none.
func (l *Ledger) BalanceOf(owner entities.Identity) (int, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("owner: %w", entities.ErrZeroIdentity)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.holdings[owner]), nil
}

// TotalSupply returns the number of cars minted so far.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.cars))
}

// TokenByIndex returns the i-th minted car id, in mint order.
func (l *Ledger) TokenByIndex(i uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i >= uint64(len(l.cars)) {
		return 0, fmt.Errorf("index %d of %d: %w", i, len(l.cars), entities.ErrNotFound)
	}
	return l.cars[i].ID, nil
}

// TokenOfOwnerByIndex returns the i-th car id held by owner. The order is
// unspecified but stable between mutations of that owner's holdings.
func (l *Ledger) TokenOfOwnerByIndex(owner entities.Identity, i uint64) (uint64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("owner: %w", entities.ErrZeroIdentity)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	held := l.holdings[owner]
	if i >= uint64(len(held)) {
		return 0, fmt.Errorf("index %d of %d: %w", i, len(held), entities.ErrNotFound)
	}
	return held[i], nil
}

// TokenNameByIndex returns the car's stored name, empty if never named.
func (l *Ledger) TokenNameByIndex(id uint64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car, err := l.carByID(id)
	if err != nil {
		return "", err
	}
	return car.Name, nil
}

// CarPriceByIndex returns the price recorded at mint. It fails with
// ErrNotFound for unminted ids rather than returning a zero default.
func (l *Ledger) CarPriceByIndex(id uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car, err := l.carByID(id)
	if err != nil {
		return 0, err
	}
	return car.Price, nil
}

// IsNameReserved reports whether the folded form of name is currently in use.
func (l *Ledger) IsNameReserved(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, taken := l.reserved[entities.FoldName(name)]
	return taken
}

// GetApproved returns the car's delegate, zero if none is set.
func (l *Ledger) GetApproved(id uint64) (entities.Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car, err := l.carByID(id)
	if err != nil {
		return entities.ZeroIdentity, err
	}
	return car.Approved, nil
}

// IsApprovedForAll reports whether operator holds a blanket grant from owner.
func (l *Ledger) IsApprovedForAll(owner, operator entities.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.operators[owner][operator]
}

// IsApprovedOrOwner reports whether spender may move the car: it is the
// owner, the per-car delegate, or an operator of the owner.
func (l *Ledger) IsApprovedOrOwner(spender entities.Identity, id uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car, err := l.carByID(id)
	if err != nil {
		return false, err
	}
	return l.authorized(spender, car), nil
}

// Mutations

// AddNewCar mints a new car to the administrator at the next dense id and
// records its price. Administrator only.
func (l *Ledger) AddNewCar(caller entities.Identity, price uint64) (uint64, error) {
	l.mu.Lock()
	id, pending, err := l.addNewCar(caller, price)
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}
	l.emit(pending)
	return id, nil
}

func (l *Ledger) addNewCar(caller entities.Identity, price uint64) (uint64, []notification, error) {
	if caller != l.admin {
		return 0, nil, entities.ErrNotAdministrator
	}
	id := uint64(len(l.cars))
	pending, err := l.mint(caller, id, price)
	if err != nil {
		return 0, nil, err
	}
	return id, pending, nil
}

func (l *Ledger) mint(to entities.Identity, id uint64, price uint64) ([]notification, error) {
	if to.IsZero() {
		return nil, fmt.Errorf("mint to: %w", entities.ErrZeroIdentity)
	}
	// Cannot happen with dense sequential assignment, checked regardless.
	if id < uint64(len(l.cars)) {
		return nil, fmt.Errorf("car %d: %w", id, entities.ErrAlreadyExists)
	}
	l.cars = append(l.cars, &entities.Car{ID: id, Owner: to, Price: price})
	l.holdings[to] = append(l.holdings[to], id)
	return []notification{func(n ports.Notifier) { n.Transfer(entities.ZeroIdentity, to, id) }}, nil
}

// SellCar relays a sale of car id to the buyer. Administrator only; the
// administrator must additionally be owner, delegate or operator for the
// car, so delegated sales of cars the administrator no longer holds work.
func (l *Ledger) SellCar(caller, to entities.Identity, id uint64) error {
	l.mu.Lock()
	pending, err := l.sellCar(caller, to, id)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(pending)
	return nil
}

func (l *Ledger) sellCar(caller, to entities.Identity, id uint64) ([]notification, error) {
	if caller != l.admin {
		return nil, entities.ErrNotAdministrator
	}
	car, err := l.carByID(id)
	if err != nil {
		return nil, err
	}
	if !l.authorized(l.admin, car) {
		return nil, fmt.Errorf("administrator cannot move car %d: %w", id, entities.ErrNotAuthorized)
	}
	pending, err := l.transfer(car.Owner, to, id)
	if err != nil {
		return nil, err
	}
	return append(pending, func(n ports.Notifier) { n.Sold(to, id) }), nil
}

// ChangeName renames a car. Administrator only. The new name must pass
// validation, differ byte-for-byte from the current name, and its folded
// form must not be reserved by a different car.
func (l *Ledger) ChangeName(caller entities.Identity, id uint64, newName string) error {
	l.mu.Lock()
	pending, err := l.changeName(caller, id, newName)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(pending)
	return nil
}

func (l *Ledger) changeName(caller entities.Identity, id uint64, newName string) ([]notification, error) {
	if caller != l.admin {
		return nil, entities.ErrNotAdministrator
	}
	car, err := l.carByID(id)
	if err != nil {
		return nil, err
	}
	if !entities.ValidateName(newName) {
		return nil, fmt.Errorf("%q: %w", newName, entities.ErrInvalidName)
	}
	if newName == car.Name {
		return nil, fmt.Errorf("car %d is already named %q: %w", id, newName, entities.ErrNameTaken)
	}
	folded := entities.FoldName(newName)
	if holder, taken := l.reserved[folded]; taken && holder != id {
		return nil, fmt.Errorf("%q held by car %d: %w", newName, holder, entities.ErrNameTaken)
	}
	if car.Name != "" {
		delete(l.reserved, entities.FoldName(car.Name))
	}
	l.reserved[folded] = id
	car.Name = newName
	return []notification{func(n ports.Notifier) { n.NameChange(id, newName) }}, nil
}

// Approve sets the car's single delegate. The caller must be the owner or
// one of the owner's operators, and the delegate must not be the owner.
func (l *Ledger) Approve(caller, delegate entities.Identity, id uint64) error {
	l.mu.Lock()
	pending, err := l.approve(caller, delegate, id)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(pending)
	return nil
}

func (l *Ledger) approve(caller, delegate entities.Identity, id uint64) ([]notification, error) {
	if caller.IsZero() || delegate.IsZero() {
		return nil, entities.ErrZeroIdentity
	}
	car, err := l.carByID(id)
	if err != nil {
		return nil, err
	}
	owner := car.Owner
	if delegate == owner {
		return nil, fmt.Errorf("delegate %s owns car %d: %w", delegate, id, entities.ErrSelfApproval)
	}
	if caller != owner && !l.operators[owner][caller] {
		return nil, fmt.Errorf("caller %s: %w", caller, entities.ErrNotAuthorized)
	}
	car.Approved = delegate
	return []notification{func(n ports.Notifier) { n.Approval(owner, delegate, id) }}, nil
}

// SetApprovalForAll grants or revokes a blanket operator delegation from the
// caller to operator.
func (l *Ledger) SetApprovalForAll(caller, operator entities.Identity, approved bool) error {
	l.mu.Lock()
	pending, err := l.setApprovalForAll(caller, operator, approved)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(pending)
	return nil
}

func (l *Ledger) setApprovalForAll(caller, operator entities.Identity, approved bool) ([]notification, error) {
	if caller.IsZero() || operator.IsZero() {
		return nil, entities.ErrZeroIdentity
	}
	if operator == caller {
		return nil, fmt.Errorf("operator %s: %w", operator, entities.ErrSelfApproval)
	}
	if approved {
		if l.operators[caller] == nil {
			l.operators[caller] = make(map[entities.Identity]bool)
		}
		l.operators[caller][operator] = true
	} else {
		delete(l.operators[caller], operator)
		if len(l.operators[caller]) == 0 {
			delete(l.operators, caller)
		}
	}
	return []notification{func(n ports.Notifier) { n.ApprovalForAll(caller, operator, approved) }}, nil
}

// TransferFrom moves car id from from to to. The caller must be owner,
// delegate or operator for the car; from must be the current owner.
func (l *Ledger) TransferFrom(caller, from, to entities.Identity, id uint64) error {
	l.mu.Lock()
	pending, err := l.transferFrom(caller, from, to, id)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(pending)
	return nil
}

func (l *Ledger) transferFrom(caller, from, to entities.Identity, id uint64) ([]notification, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("caller: %w", entities.ErrZeroIdentity)
	}
	car, err := l.carByID(id)
	if err != nil {
		return nil, err
	}
	if !l.authorized(caller, car) {
		return nil, fmt.Errorf("caller %s: %w", caller, entities.ErrNotAuthorized)
	}
	return l.transfer(from, to, id)
}

// SafeTransferFrom is TransferFrom followed by the recipient-awareness
// acknowledgment. The receiver is consulted only after the transfer has
// fully committed; if it rejects, the ledger compensates by moving the car
// back and the operation fails with the receiver's error.
func (l *Ledger) SafeTransferFrom(caller, from, to entities.Identity, id uint64, data []byte) error {
	if err := l.TransferFrom(caller, from, to, id); err != nil {
		return err
	}
	if l.receiver == nil {
		return nil
	}
	if err := l.receiver.OnCarReceived(caller, from, to, id, data); err != nil {
		l.mu.Lock()
		pending, backErr := l.transfer(to, from, id)
		l.mu.Unlock()
		if backErr != nil {
			// Receiver moved the car before rejecting; surface both.
			return errors.Join(fmt.Errorf("receiver rejected car %d: %w", id, err), backErr)
		}
		l.emit(pending)
		return fmt.Errorf("receiver rejected car %d: %w", id, err)
	}
	return nil
}

// Internals, lock held.

func (l *Ledger) carByID(id uint64) (*entities.Car, error) {
	if id >= uint64(len(l.cars)) {
		return nil, fmt.Errorf("car %d: %w", id, entities.ErrNotFound)
	}
	return l.cars[id], nil
}

func (l *Ledger) authorized(spender entities.Identity, car *entities.Car) bool {
	if spender.IsZero() {
		return false
	}
	return spender == car.Owner || spender == car.Approved || l.operators[car.Owner][spender]
}

// transfer moves ownership and clears the per-car delegate. All checks run
// before any index is touched, so a failure leaves the ledger untouched.
func (l *Ledger) transfer(from, to entities.Identity, id uint64) ([]notification, error) {
	car, err := l.carByID(id)
	if err != nil {
		return nil, err
	}
	if to.IsZero() {
		return nil, fmt.Errorf("transfer to: %w", entities.ErrZeroIdentity)
	}
	if car.Owner != from {
		return nil, fmt.Errorf("car %d owned by %s, not %s: %w", id, car.Owner, from, entities.ErrNotOwner)
	}
	car.Approved = entities.ZeroIdentity
	l.holdings[from] = removeHolding(l.holdings[from], id)
	if len(l.holdings[from]) == 0 {
		delete(l.holdings, from)
	}
	l.holdings[to] = append(l.holdings[to], id)
	car.Owner = to
	return []notification{func(n ports.Notifier) { n.Transfer(from, to, id) }}, nil
}

func (l *Ledger) emit(pending []notification) {
	if l.notifier == nil {
		return
	}
	for _, fire := range pending {
		fire(l.notifier)
	}
}

func removeHolding(held []uint64, id uint64) []uint64 {
	for i, v := range held {
		if v == id {
			return append(held[:i], held[i+1:]...)
		}
	}
	return held
}
