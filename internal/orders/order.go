package orders

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a single product line within an order. PriceAtPurchase and the
// denormalized name/image are snapshots taken at checkout; Subtotal must
// always equal PriceAtPurchase × Quantity.
type Item struct {
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	VendorID        primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	Name            string             `bson:"name" json:"name"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	PriceAtPurchase float64            `bson:"priceAtPurchase" json:"priceAtPurchase"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
}

// Order is the persisted order document. CustomerName, CustomerAddress and
// VendorName are immutable snapshots from creation time and never follow
// later profile edits. CancelReason and VendorRejectReason are set exactly
// once, on the transition into CANCELED / REJECTED, and never cleared.
// Version guards every mutation through the store's compare-and-swap.
type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID         primitive.ObjectID `bson:"customerId" json:"customerId"`
	VendorID           primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	Items              []Item             `bson:"items" json:"items"`
	TotalPrice         float64            `bson:"totalPrice" json:"totalPrice"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	CustomerAddress    string             `bson:"customerAddress" json:"customerAddress"`
	VendorName         string             `bson:"vendorName" json:"vendorName"`
	Status             Status             `bson:"status" json:"status"`
	VendorDecision     VendorDecision     `bson:"vendorDecision" json:"vendorDecision"`
	CancelReason       string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	VendorRejectReason string             `bson:"vendorRejectReason,omitempty" json:"vendorRejectReason,omitempty"`
	Version            int64              `bson:"version" json:"version"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewItem builds an item with the subtotal derived from price and quantity,
// the only place the subtotal is ever computed on the write path.
func NewItem(productID, vendorID primitive.ObjectID, name, imageURL string, price float64, quantity int) Item {
	return Item{
		ProductID:       productID,
		VendorID:        vendorID,
		Name:            name,
		ImageURL:        imageURL,
		PriceAtPurchase: price,
		Quantity:        quantity,
		Subtotal:        price * float64(quantity),
	}
}

// SumSubtotals returns the total the order must carry. Checkout writes it
// once; reads verify against it instead of recomputing.
func SumSubtotals(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}
