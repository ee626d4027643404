package orders

// UIStatus is the simplified 3-step progress state shown to customers.
type UIStatus string

const (
	UIStatusPending   UIStatus = "PENDING"
	UIStatusActive    UIStatus = "ACTIVE"
	UIStatusDelivered UIStatus = "DELIVERED"
)

// MapToUIStatus folds the (vendorDecision, status) pair onto the 3-step
// progress bar. REJECTED and CANCELED deliberately collapse into the
// PENDING step; the frontend has always rendered them that way, so the
// mapping is preserved here even though it can mislead. Changing it is a
// product decision, not an implementation one.
func MapToUIStatus(decision VendorDecision, status Status) UIStatus {
	switch {
	case status == StatusDelivered:
		return UIStatusDelivered
	case decision == DecisionAccepted && status == StatusActive:
		return UIStatusActive
	default:
		return UIStatusPending
	}
}
