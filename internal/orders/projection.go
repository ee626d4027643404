package orders

import "go.mongodb.org/mongo-driver/bson/primitive"

// Projections are pure read-side transformations: they never mutate the
// underlying order, and each role only ever sees its own view.

// CustomerView is the order as the buying customer sees it. CancelReason is
// only populated by customer-initiated cancels; vendor rejections keep their
// reason on the vendor side, so a vendor-rejected order shows no reason
// here. That gap is intentional and tracked as a product question.
type CustomerView struct {
	ID             string         `json:"id"`
	Status         Status         `json:"status"`
	VendorDecision VendorDecision `json:"vendorDecision"`
	UIStatus       UIStatus       `json:"uiStatus"`
	VendorName     string         `json:"vendorName"`
	Items          []Item         `json:"items"`
	TotalPrice     float64        `json:"totalPrice"`
	ShippingAddr   string         `json:"shippingAddress"`
	CancelReason   string         `json:"cancelReason,omitempty"`
}

// VendorView restricts an order to the lines the requesting vendor owns.
// VendorSubtotal is computed from those lines only, never from the full
// order total.
type VendorView struct {
	ID              string         `json:"id"`
	Status          Status         `json:"status"`
	VendorDecision  VendorDecision `json:"vendorDecision"`
	CustomerName    string         `json:"customerName"`
	CustomerAddress string         `json:"customerAddress"`
	Items           []Item         `json:"items"`
	VendorSubtotal  float64        `json:"vendorSubtotal"`
	RejectReason    string         `json:"rejectReason,omitempty"`
}

// ShipperItem strips pricing from an order line; the shipper only needs
// what to move and how many.
type ShipperItem struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Quantity int    `json:"quantity"`
}

// ShipperView exposes only what physical fulfillment needs. Vendor identity
// and per-line pricing are withheld.
type ShipperView struct {
	ID              string        `json:"id"`
	Status          Status        `json:"status"`
	CustomerName    string        `json:"customerName"`
	CustomerAddress string        `json:"customerAddress"`
	Items           []ShipperItem `json:"items"`
	TotalPrice      float64       `json:"totalPrice"`
}

func ProjectCustomer(order Order) CustomerView {
	items := make([]Item, len(order.Items))
	copy(items, order.Items)

	return CustomerView{
		ID:             order.ID.Hex(),
		Status:         order.Status,
		VendorDecision: order.VendorDecision,
		UIStatus:       MapToUIStatus(order.VendorDecision, order.Status),
		VendorName:     order.VendorName,
		Items:          items,
		TotalPrice:     order.TotalPrice,
		ShippingAddr:   order.CustomerAddress,
		CancelReason:   order.CancelReason,
	}
}

func ProjectVendor(order Order, vendorID primitive.ObjectID) VendorView {
	items := make([]Item, 0, len(order.Items))
	var subtotal float64
	for _, item := range order.Items {
		if item.VendorID != vendorID {
			continue
		}
		items = append(items, item)
		subtotal += item.Subtotal
	}

	return VendorView{
		ID:              order.ID.Hex(),
		Status:          order.Status,
		VendorDecision:  order.VendorDecision,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		Items:           items,
		VendorSubtotal:  subtotal,
		RejectReason:    order.VendorRejectReason,
	}
}

func ProjectShipper(order Order) ShipperView {
	items := make([]ShipperItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ShipperItem{
			Name:     item.Name,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
		})
	}

	return ShipperView{
		ID:              order.ID.Hex(),
		Status:          order.Status,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		Items:           items,
		TotalPrice:      order.TotalPrice,
	}
}
