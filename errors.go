package ofxledger

import (
	"errors"
	"fmt"

	"github.com/etnz/ofxledger/ofx"
)

var (
	// ErrSecurityNotFound is returned when a security is not in the statement
	// catalog, or has no commodity and commodities are not created.
	ErrSecurityNotFound = errors.New("security not found")
	// ErrCommodityMismatch is returned when an account exists with another
	// commodity than the one resolved for it.
	ErrCommodityMismatch = errors.New("commodity mismatch")
	// ErrUnresolvablePrice is returned when a transfer has no price and no
	// position gives one.
	ErrUnresolvablePrice = errors.New("unresolvable price")
	// ErrAmbiguousMatch is returned when several sibling transactions could be
	// the other side of a transaction.
	ErrAmbiguousMatch = errors.New("ambiguous match")
)

// ResolutionError reports a statement that cannot be mapped to the book
// without guessing.
type ResolutionError struct {
	Err      error
	Security ofx.SecurityID // zero if not about a security
	Detail   string
}

func (e *ResolutionError) Error() string {
	if e.Security == (ofx.SecurityID{}) {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Security, e.Detail)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func resolutionError(err error, id ofx.SecurityID, format string, args ...any) error {
	return &ResolutionError{Err: err, Security: id, Detail: fmt.Sprintf(format, args...)}
}

// AssertionViolation reports an invariant of the institution data that does
// not hold.
type AssertionViolation struct {
	Invariant string
	Detail    string
}

func (e *AssertionViolation) Error() string {
	return fmt.Sprintf("assertion %q violated: %s", e.Invariant, e.Detail)
}
