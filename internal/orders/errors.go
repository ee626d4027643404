package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the order id does not exist in the store.
	ErrNotFound = errors.New("order not found")

	// ErrConflict means a compare-and-swap lost against a concurrent
	// writer; callers should re-read before retrying.
	ErrConflict = errors.New("order version conflict")
)

// InvalidTransitionError reports an action that is not legal for the acting
// role in the order's current state. It carries the state observed at the
// time of the attempt so the caller can refresh without a second read.
type InvalidTransitionError struct {
	Role           Role
	Action         Action
	Status         Status
	VendorDecision VendorDecision
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s may not %s an order in status=%s vendorDecision=%s",
		e.Role, e.Action, e.Status, e.VendorDecision)
}

// ValidationError rejects malformed input (missing or oversized reason
// text) before any store mutation is attempted.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}
