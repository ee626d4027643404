package orders

// Status is the canonical lifecycle state of an order. DELIVERED and
// CANCELED are terminal; no transition leaves them.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusDelivered Status = "DELIVERED"
	StatusCanceled  Status = "CANCELED"
)

// VendorDecision is the vendor-facing sub-state, an axis independent
// from Status.
type VendorDecision string

const (
	DecisionPending  VendorDecision = "PENDING"
	DecisionAccepted VendorDecision = "ACCEPTED"
	DecisionRejected VendorDecision = "REJECTED"
)

// Action is a role-issued request to move an order through its lifecycle.
type Action string

const (
	ActionCancel        Action = "CANCEL"
	ActionAccept        Action = "ACCEPT"
	ActionReject        Action = "REJECT"
	ActionMarkDelivered Action = "MARK_DELIVERED"
)

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}
