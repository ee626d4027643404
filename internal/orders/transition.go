package orders

import "strings"

const maxReasonLength = 500

// ReasonCategoryOther is the free-form bucket; it is the only category that
// demands accompanying notes.
const ReasonCategoryOther = "Other"

// Reason is the customer- or vendor-supplied explanation recorded on a
// CANCEL or REJECT transition.
type Reason struct {
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// Validate enforces the reason rules shared by CANCEL and REJECT: a
// category is required, notes are mandatory for "Other", and the combined
// text is length-capped. It never touches the store.
func (r Reason) Validate() error {
	category := strings.TrimSpace(r.Category)
	notes := strings.TrimSpace(r.Notes)

	if category == "" {
		return &ValidationError{Field: "reason.category", Detail: "category is required"}
	}
	if category == ReasonCategoryOther && notes == "" {
		return &ValidationError{Field: "reason.notes", Detail: `notes are required when category is "Other"`}
	}
	if len(r.Text()) > maxReasonLength {
		return &ValidationError{Field: "reason", Detail: "reason text exceeds 500 characters"}
	}
	return nil
}

// Text renders the stored free-text form of the reason.
func (r Reason) Text() string {
	category := strings.TrimSpace(r.Category)
	notes := strings.TrimSpace(r.Notes)
	if notes == "" {
		return category
	}
	return category + ": " + notes
}

// AttemptTransition applies one (role, action) pair against a snapshot of an
// order and returns the mutated copy. The input order is never modified. Any
// action against a terminal status, or by a role the table does not permit,
// fails with *InvalidTransitionError carrying the observed state.
//
// Legal transitions:
//
//	PENDING/PENDING        + customer CANCEL         -> CANCELED, cancelReason set
//	PENDING|ACTIVE/PENDING + vendor ACCEPT           -> ACTIVE, ACCEPTED
//	PENDING/PENDING        + vendor REJECT           -> CANCELED, REJECTED, vendorRejectReason set
//	ACTIVE/ACCEPTED        + shipper MARK_DELIVERED  -> DELIVERED
func AttemptTransition(order Order, role Role, action Action, reason Reason) (Order, error) {
	invalid := func() (Order, error) {
		return Order{}, &InvalidTransitionError{
			Role:           role,
			Action:         action,
			Status:         order.Status,
			VendorDecision: order.VendorDecision,
		}
	}

	if order.Status.Terminal() {
		return invalid()
	}

	switch action {
	case ActionCancel:
		if role != RoleCustomer || order.Status != StatusPending || order.VendorDecision != DecisionPending {
			return invalid()
		}
		if err := reason.Validate(); err != nil {
			return Order{}, err
		}
		order.Status = StatusCanceled
		order.CancelReason = reason.Text()
		return order, nil

	case ActionAccept:
		if role != RoleVendor || order.VendorDecision != DecisionPending {
			return invalid()
		}
		if order.Status != StatusPending && order.Status != StatusActive {
			return invalid()
		}
		order.VendorDecision = DecisionAccepted
		order.Status = StatusActive
		return order, nil

	case ActionReject:
		if role != RoleVendor || order.Status != StatusPending || order.VendorDecision != DecisionPending {
			return invalid()
		}
		if err := reason.Validate(); err != nil {
			return Order{}, err
		}
		order.VendorDecision = DecisionRejected
		order.Status = StatusCanceled
		order.VendorRejectReason = reason.Text()
		return order, nil

	case ActionMarkDelivered:
		if role != RoleShipper || order.Status != StatusActive || order.VendorDecision != DecisionAccepted {
			return invalid()
		}
		order.Status = StatusDelivered
		return order, nil

	default:
		return invalid()
	}
}
