package entities

import "errors"

// Ledger error kinds. Every precondition failure aborts the whole operation
// with no partial effects and surfaces one of these, matchable with
// errors.Is through any wrapping added at layer boundaries.
var (
	// ErrZeroIdentity is returned when an identity argument is the invalid sentinel.
	ErrZeroIdentity = errors.New("zero identity")

	// ErrNotFound is returned when an operation references an unminted car id.
	ErrNotFound = errors.New("car not found")

	// ErrAlreadyExists is returned when a mint collides with an existing id.
	ErrAlreadyExists = errors.New("car already exists")

	// ErrNotOwner is returned when a transfer's from argument is not the current owner.
	ErrNotOwner = errors.New("not the owner")

	// ErrNotAuthorized is returned when the caller is neither owner, delegate
	// nor operator for the car being acted on.
	ErrNotAuthorized = errors.New("caller not authorized")

	// ErrSelfApproval is returned when a delegation targets the owner or caller itself.
	ErrSelfApproval = errors.New("approval target is self")

	// ErrInvalidName is returned when a name fails validation.
	ErrInvalidName = errors.New("invalid name")

	// ErrNameTaken is returned when a name's folded form is already reserved.
	ErrNameTaken = errors.New("name already taken")

	// ErrNotAdministrator is returned when a non-administrator invokes an
	// administrator-only operation.
	ErrNotAdministrator = errors.New("caller is not the administrator")
)
