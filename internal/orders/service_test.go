package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"furnimarket/internal/notify"
)

func newTestService(t *testing.T) (*Service, *MemoryStore, *notify.MemorySignal) {
	t.Helper()
	store := NewMemoryStore()
	signal := notify.NewMemorySignal()
	return NewService(store, signal), store, signal
}

func seedOrder(t *testing.T, store *MemoryStore, customerID, vendorID primitive.ObjectID) Order {
	t.Helper()
	order, err := store.Insert(context.Background(), Order{
		CustomerID:      customerID,
		VendorID:        vendorID,
		CustomerName:    "Ada Lovelace",
		CustomerAddress: "12 Analytical Way",
		VendorName:      "Oak & Pine",
		Status:          StatusPending,
		VendorDecision:  DecisionPending,
		Items: []Item{
			NewItem(primitive.NewObjectID(), vendorID, "Walnut desk", "", 450, 1),
		},
		TotalPrice: 450,
		Version:    1,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
	return order
}

func TestCancelSucceedsExactlyOnce(t *testing.T) {
	svc, store, _ := newTestService(t)
	customerID := primitive.NewObjectID()
	order := seedOrder(t, store, customerID, primitive.NewObjectID())

	ctx := context.Background()
	reason := Reason{Category: "Changed my mind"}

	got, err := svc.SubmitCustomerCancel(ctx, order.ID, customerID, reason)
	if err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if got.Status != StatusCanceled || got.Version != 2 {
		t.Fatalf("after cancel: status=%s version=%d", got.Status, got.Version)
	}

	_, err = svc.SubmitCustomerCancel(ctx, order.ID, customerID, reason)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("second cancel: expected InvalidTransitionError, got %v", err)
	}
	if invalid.Status != StatusCanceled {
		t.Fatalf("error must carry the canceled state, got %+v", invalid)
	}
}

func TestCancelByWrongCustomerIsNotFound(t *testing.T) {
	svc, store, _ := newTestService(t)
	order := seedOrder(t, store, primitive.NewObjectID(), primitive.NewObjectID())

	_, err := svc.SubmitCustomerCancel(context.Background(), order.ID, primitive.NewObjectID(), Reason{Category: "Late"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign order, got %v", err)
	}
}

func TestCancelRejectRaceHasOneWinner(t *testing.T) {
	svc, store, _ := newTestService(t)
	customerID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()

	ctx := context.Background()

	// Run the race repeatedly; either interleaving must leave the order
	// CANCELED with exactly one reason recorded.
	for i := 0; i < 50; i++ {
		order := seedOrder(t, store, customerID, vendorID)

		var wg sync.WaitGroup
		var cancelErr, rejectErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = svc.SubmitCustomerCancel(ctx, order.ID, customerID, Reason{Category: "Changed my mind"})
		}()
		go func() {
			defer wg.Done()
			_, rejectErr = svc.SubmitVendorDecision(ctx, order.ID, vendorID, ActionReject, Reason{Category: "Out of stock"})
		}()
		wg.Wait()

		if (cancelErr == nil) == (rejectErr == nil) {
			t.Fatalf("run %d: expected exactly one winner, cancelErr=%v rejectErr=%v", i, cancelErr, rejectErr)
		}

		final, err := store.Load(ctx, order.ID)
		if err != nil {
			t.Fatalf("run %d: reload failed: %v", i, err)
		}
		if final.Status != StatusCanceled {
			t.Fatalf("run %d: expected CANCELED, got %s", i, final.Status)
		}

		hasCancel := final.CancelReason != ""
		hasReject := final.VendorRejectReason != ""
		if hasCancel == hasReject {
			t.Fatalf("run %d: exactly one reason must be set, cancel=%q reject=%q",
				i, final.CancelReason, final.VendorRejectReason)
		}
		if cancelErr == nil && !hasCancel {
			t.Fatalf("run %d: cancel won but cancelReason missing", i)
		}
		if rejectErr == nil && !hasReject {
			t.Fatalf("run %d: reject won but vendorRejectReason missing", i)
		}
	}
}

func TestLoserGetsInvalidTransitionAgainstFreshState(t *testing.T) {
	svc, store, _ := newTestService(t)
	customerID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()
	order := seedOrder(t, store, customerID, vendorID)

	ctx := context.Background()

	if _, err := svc.SubmitCustomerCancel(ctx, order.ID, customerID, Reason{Category: "Changed my mind"}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := svc.SubmitVendorDecision(ctx, order.ID, vendorID, ActionReject, Reason{Category: "Out of stock"})
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Status != StatusCanceled {
		t.Fatalf("loser must observe the now-canceled order, got %+v", invalid)
	}

	final, _ := store.Load(ctx, order.ID)
	if final.VendorRejectReason != "" {
		t.Fatalf("losing reject must not overwrite reasons, got %q", final.VendorRejectReason)
	}
}

func TestTransitionsInvalidateAffectedLists(t *testing.T) {
	svc, store, signal := newTestService(t)
	customerID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()
	order := seedOrder(t, store, customerID, vendorID)

	ctx := context.Background()
	keys := []string{
		ListKey(RoleCustomer, customerID.Hex()),
		ListKey(RoleVendor, vendorID.Hex()),
		ListKey(RoleShipper, ""),
	}

	before, _ := signal.Ticks(ctx, keys...)

	if _, err := svc.SubmitVendorDecision(ctx, order.ID, vendorID, ActionAccept, Reason{}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	after, _ := signal.Ticks(ctx, keys...)
	for _, key := range keys {
		if after[key] != before[key]+1 {
			t.Fatalf("key %s: tick %d -> %d, expected +1", key, before[key], after[key])
		}
	}
}

func TestValidationErrorBeforeStoreAccess(t *testing.T) {
	svc, store, _ := newTestService(t)
	customerID := primitive.NewObjectID()
	order := seedOrder(t, store, customerID, primitive.NewObjectID())

	_, err := svc.SubmitCustomerCancel(context.Background(), order.ID, customerID, Reason{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	final, _ := store.Load(context.Background(), order.ID)
	if final.Status != StatusPending || final.Version != 1 {
		t.Fatalf("order must be untouched after validation failure, got %+v", final)
	}
}

func TestVendorListExcludesRejectedOrders(t *testing.T) {
	svc, store, _ := newTestService(t)
	vendorID := primitive.NewObjectID()
	kept := seedOrder(t, store, primitive.NewObjectID(), vendorID)
	rejected := seedOrder(t, store, primitive.NewObjectID(), vendorID)

	ctx := context.Background()
	if _, err := svc.SubmitVendorDecision(ctx, rejected.ID, vendorID, ActionReject, Reason{Category: "Out of stock"}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	list, err := svc.ListVendorOrders(ctx, vendorID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != kept.ID.Hex() {
		t.Fatalf("rejected order must not appear in the default list, got %+v", list)
	}

	// Direct lookup still works.
	view, err := svc.GetVendorView(ctx, rejected.ID, vendorID)
	if err != nil {
		t.Fatalf("direct lookup failed: %v", err)
	}
	if view.RejectReason == "" {
		t.Fatal("direct lookup must expose the reject reason to the vendor")
	}
}

func TestShipperListOnlyActiveOrders(t *testing.T) {
	svc, store, _ := newTestService(t)
	vendorID := primitive.NewObjectID()
	seedOrder(t, store, primitive.NewObjectID(), vendorID) // stays PENDING
	active := seedOrder(t, store, primitive.NewObjectID(), vendorID)

	ctx := context.Background()
	if _, err := svc.SubmitVendorDecision(ctx, active.ID, vendorID, ActionAccept, Reason{}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	list, err := svc.ListShipperOrders(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != active.ID.Hex() {
		t.Fatalf("expected only the active order, got %+v", list)
	}
}

func TestDeliveredOrderRejectsFurtherActions(t *testing.T) {
	svc, store, _ := newTestService(t)
	customerID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()
	order := seedOrder(t, store, customerID, vendorID)

	ctx := context.Background()
	if _, err := svc.SubmitVendorDecision(ctx, order.ID, vendorID, ActionAccept, Reason{}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := svc.SubmitShipperDelivered(ctx, order.ID); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	before, _ := store.Load(ctx, order.ID)

	_, err := svc.SubmitCustomerCancel(ctx, order.ID, customerID, Reason{Category: "Late"})
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}

	after, _ := store.Load(ctx, order.ID)
	if after.Version != before.Version || after.Status != StatusDelivered {
		t.Fatalf("stored order must be unchanged, before=%+v after=%+v", before, after)
	}
}
