package orders

import (
	"errors"
	"strings"
	"testing"
)

func pendingOrder() Order {
	return Order{
		Status:         StatusPending,
		VendorDecision: DecisionPending,
		Version:        1,
	}
}

func TestCustomerCancelFromPending(t *testing.T) {
	order := pendingOrder()

	got, err := AttemptTransition(order, RoleCustomer, ActionCancel, Reason{Category: "Changed my mind"})
	if err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if got.Status != StatusCanceled {
		t.Fatalf("expected status CANCELED, got %s", got.Status)
	}
	if got.CancelReason != "Changed my mind" {
		t.Fatalf("expected cancelReason to be recorded, got %q", got.CancelReason)
	}
	if got.VendorRejectReason != "" {
		t.Fatalf("cancel must not touch vendorRejectReason, got %q", got.VendorRejectReason)
	}
	if order.Status != StatusPending {
		t.Fatal("input order must not be mutated")
	}
}

func TestVendorAcceptFromPendingAndActive(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusActive} {
		order := pendingOrder()
		order.Status = status

		got, err := AttemptTransition(order, RoleVendor, ActionAccept, Reason{})
		if err != nil {
			t.Fatalf("accept from %s: unexpected error %v", status, err)
		}
		if got.Status != StatusActive || got.VendorDecision != DecisionAccepted {
			t.Fatalf("accept from %s: got status=%s decision=%s", status, got.Status, got.VendorDecision)
		}
	}
}

func TestVendorRejectFromPending(t *testing.T) {
	got, err := AttemptTransition(pendingOrder(), RoleVendor, ActionReject, Reason{Category: "Out of stock"})
	if err != nil {
		t.Fatalf("expected reject to succeed, got %v", err)
	}
	if got.Status != StatusCanceled || got.VendorDecision != DecisionRejected {
		t.Fatalf("got status=%s decision=%s", got.Status, got.VendorDecision)
	}
	if got.VendorRejectReason != "Out of stock" {
		t.Fatalf("expected vendorRejectReason, got %q", got.VendorRejectReason)
	}
	if got.CancelReason != "" {
		t.Fatalf("reject must not touch cancelReason, got %q", got.CancelReason)
	}
}

func TestShipperDeliverRequiresActiveAccepted(t *testing.T) {
	order := pendingOrder()
	order.Status = StatusActive
	order.VendorDecision = DecisionAccepted

	got, err := AttemptTransition(order, RoleShipper, ActionMarkDelivered, Reason{})
	if err != nil {
		t.Fatalf("expected delivery to succeed, got %v", err)
	}
	if got.Status != StatusDelivered {
		t.Fatalf("expected DELIVERED, got %s", got.Status)
	}

	// ACTIVE without an accepted decision is not deliverable.
	order.VendorDecision = DecisionPending
	if _, err := AttemptTransition(order, RoleShipper, ActionMarkDelivered, Reason{}); err == nil {
		t.Fatal("expected invalid transition for unaccepted order")
	}
}

func TestTerminalStatesAbsorbEverything(t *testing.T) {
	terminals := []Order{
		{Status: StatusDelivered, VendorDecision: DecisionAccepted},
		{Status: StatusCanceled, VendorDecision: DecisionPending},
		{Status: StatusCanceled, VendorDecision: DecisionRejected},
	}
	attempts := []struct {
		role   Role
		action Action
	}{
		{RoleCustomer, ActionCancel},
		{RoleVendor, ActionAccept},
		{RoleVendor, ActionReject},
		{RoleShipper, ActionMarkDelivered},
	}

	for _, order := range terminals {
		for _, attempt := range attempts {
			_, err := AttemptTransition(order, attempt.role, attempt.action, Reason{Category: "Other", Notes: "n"})
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("%s %s against %s: expected InvalidTransitionError, got %v",
					attempt.role, attempt.action, order.Status, err)
			}
			if invalid.Status != order.Status || invalid.VendorDecision != order.VendorDecision {
				t.Fatalf("error must carry the observed state, got %+v", invalid)
			}
		}
	}
}

func TestUnauthorizedRolesRejected(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
	}{
		{RoleVendor, ActionCancel},
		{RoleShipper, ActionCancel},
		{RoleCustomer, ActionAccept},
		{RoleShipper, ActionAccept},
		{RoleCustomer, ActionReject},
		{RoleCustomer, ActionMarkDelivered},
		{RoleVendor, ActionMarkDelivered},
	}

	for _, tc := range cases {
		_, err := AttemptTransition(pendingOrder(), tc.role, tc.action, Reason{Category: "Other", Notes: "n"})
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s %s: expected InvalidTransitionError, got %v", tc.role, tc.action, err)
		}
	}
}

func TestFullLifecycleWalk(t *testing.T) {
	order := pendingOrder()

	order, err := AttemptTransition(order, RoleVendor, ActionAccept, Reason{})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if order.Status != StatusActive || order.VendorDecision != DecisionAccepted {
		t.Fatalf("after accept: status=%s decision=%s", order.Status, order.VendorDecision)
	}

	order, err = AttemptTransition(order, RoleShipper, ActionMarkDelivered, Reason{})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if order.Status != StatusDelivered {
		t.Fatalf("after deliver: status=%s", order.Status)
	}

	if _, err := AttemptTransition(order, RoleCustomer, ActionCancel, Reason{Category: "Late"}); err == nil {
		t.Fatal("expected any further action to fail")
	}
}

func TestReasonValidation(t *testing.T) {
	if err := (Reason{}).Validate(); err == nil {
		t.Fatal("empty reason must fail validation")
	}

	if err := (Reason{Category: "Other"}).Validate(); err == nil {
		t.Fatal(`"Other" without notes must fail validation`)
	}

	if err := (Reason{Category: "Other", Notes: "wrong color"}).Validate(); err != nil {
		t.Fatalf(`"Other" with notes should pass, got %v`, err)
	}

	long := Reason{Category: "Other", Notes: strings.Repeat("x", 600)}
	err := long.Validate()
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("oversized reason must fail with ValidationError, got %v", err)
	}
}

func TestReasonTextJoinsCategoryAndNotes(t *testing.T) {
	if got := (Reason{Category: "Other", Notes: "scratched"}).Text(); got != "Other: scratched" {
		t.Fatalf("got %q", got)
	}
	if got := (Reason{Category: "Changed my mind"}).Text(); got != "Changed my mind" {
		t.Fatalf("got %q", got)
	}
}
