package orders

import "testing"

func TestMapToUIStatus(t *testing.T) {
	cases := []struct {
		decision VendorDecision
		status   Status
		want     UIStatus
	}{
		{DecisionPending, StatusPending, UIStatusPending},
		{DecisionAccepted, StatusActive, UIStatusActive},
		{DecisionAccepted, StatusDelivered, UIStatusDelivered},
		// The documented fold: rejected and canceled orders render as the
		// pending step, not as a distinct one.
		{DecisionRejected, StatusCanceled, UIStatusPending},
		{DecisionPending, StatusCanceled, UIStatusPending},
		// Accept has not happened yet, so ACTIVE alone is not enough.
		{DecisionPending, StatusActive, UIStatusPending},
	}

	for _, tc := range cases {
		if got := MapToUIStatus(tc.decision, tc.status); got != tc.want {
			t.Fatalf("MapToUIStatus(%s, %s) = %s, want %s", tc.decision, tc.status, got, tc.want)
		}
	}
}
