package orders

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mixedVendorOrder(vendorA, vendorB primitive.ObjectID) Order {
	return Order{
		ID:              primitive.NewObjectID(),
		CustomerID:      primitive.NewObjectID(),
		VendorID:        vendorA,
		CustomerName:    "Ada Lovelace",
		CustomerAddress: "12 Analytical Way",
		VendorName:      "Oak & Pine",
		Status:          StatusPending,
		VendorDecision:  DecisionPending,
		Items: []Item{
			NewItem(primitive.NewObjectID(), vendorA, "Walnut desk", "/uploads/desk.jpg", 450, 1),
			NewItem(primitive.NewObjectID(), vendorA, "Desk chair", "", 120, 2),
			NewItem(primitive.NewObjectID(), vendorB, "Floor lamp", "", 80, 1),
		},
		TotalPrice: 450 + 240 + 80,
		Version:    1,
		CreatedAt:  time.Now(),
	}
}

func TestVendorViewFiltersForeignItems(t *testing.T) {
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	order := mixedVendorOrder(vendorA, vendorB)

	view := ProjectVendor(order, vendorA)
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 vendor-A items, got %d", len(view.Items))
	}
	if view.VendorSubtotal != 690 {
		t.Fatalf("expected vendorSubtotal 690 from vendor-A items only, got %v", view.VendorSubtotal)
	}

	customer := ProjectCustomer(order)
	if len(customer.Items) != 3 {
		t.Fatalf("customer view must keep all 3 items, got %d", len(customer.Items))
	}
	if customer.TotalPrice != 770 {
		t.Fatalf("customer total must cover all items, got %v", customer.TotalPrice)
	}
}

func TestCustomerViewWithholdsVendorRejectReason(t *testing.T) {
	order := mixedVendorOrder(primitive.NewObjectID(), primitive.NewObjectID())
	order.Status = StatusCanceled
	order.VendorDecision = DecisionRejected
	order.VendorRejectReason = "Out of stock"

	view := ProjectCustomer(order)
	if view.CancelReason != "" {
		t.Fatalf("vendor rejections must not leak into the customer cancelReason, got %q", view.CancelReason)
	}
	if view.UIStatus != UIStatusPending {
		t.Fatalf("rejected order must render as the pending step, got %s", view.UIStatus)
	}
}

func TestShipperViewOmitsVendorAndPricing(t *testing.T) {
	vendorA := primitive.NewObjectID()
	order := mixedVendorOrder(vendorA, primitive.NewObjectID())

	view := ProjectShipper(order)
	if view.CustomerName != "Ada Lovelace" || view.CustomerAddress != "12 Analytical Way" {
		t.Fatalf("shipper view must carry fulfillment contact fields, got %+v", view)
	}
	if view.TotalPrice != order.TotalPrice {
		t.Fatalf("shipper view keeps the total, got %v", view.TotalPrice)
	}
	if len(view.Items) != 3 {
		t.Fatalf("expected all 3 lines, got %d", len(view.Items))
	}
	for _, item := range view.Items {
		if item.Name == "" || item.Quantity == 0 {
			t.Fatalf("shipper line missing fulfillment fields: %+v", item)
		}
	}
}

func TestProjectionsDoNotMutateOrder(t *testing.T) {
	vendorA := primitive.NewObjectID()
	order := mixedVendorOrder(vendorA, primitive.NewObjectID())

	customer := ProjectCustomer(order)
	customer.Items[0].Quantity = 99

	if order.Items[0].Quantity == 99 {
		t.Fatal("projection shared the underlying item slice")
	}
}

func TestSubtotalInvariant(t *testing.T) {
	order := mixedVendorOrder(primitive.NewObjectID(), primitive.NewObjectID())

	var sum float64
	for _, item := range order.Items {
		if item.Subtotal != item.PriceAtPurchase*float64(item.Quantity) {
			t.Fatalf("item subtotal drifted: %+v", item)
		}
		sum += item.Subtotal
	}
	if order.TotalPrice != sum {
		t.Fatalf("totalPrice %v != sum of subtotals %v", order.TotalPrice, sum)
	}
	if got := SumSubtotals(order.Items); got != sum {
		t.Fatalf("SumSubtotals = %v, want %v", got, sum)
	}
}
