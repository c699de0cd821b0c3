package entities

// Identity is an opaque external-party address used as an owner, operator or
// delegate. The empty string is the zero sentinel: it is never a valid owner
// or delegate, and mint transfers are reported as coming from it.
type Identity string

// ZeroIdentity is the invalid sentinel address.
const ZeroIdentity Identity = ""

// IsZero reports whether the identity is the invalid sentinel.
func (i Identity) IsZero() bool {
	return i == ZeroIdentity
}

// String returns the identity as a plain string.
func (i Identity) String() string {
	return string(i)
}
