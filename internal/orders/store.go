package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence collaborator for orders. Implementations must
// make CompareAndSwap atomic on (id, expectedVersion) so that of two racing
// transitions exactly one commits; the loser gets ErrConflict and has to
// re-read. Orders are never deleted.
type Store interface {
	Load(ctx context.Context, id primitive.ObjectID) (Order, error)
	Insert(ctx context.Context, order Order) (Order, error)

	// CompareAndSwap persists the mutated snapshot only if the stored
	// version still equals expectedVersion, bumping the version by one.
	CompareAndSwap(ctx context.Context, id primitive.ObjectID, expectedVersion int64, mutated Order) (Order, error)

	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]Order, error)

	// ListByVendor omits REJECTED orders unless includeRejected is set;
	// rejected orders stay reachable through Load.
	ListByVendor(ctx context.Context, vendorID primitive.ObjectID, includeRejected bool) ([]Order, error)

	// ListForShipper returns the orders currently in fulfillment.
	ListForShipper(ctx context.Context) ([]Order, error)
}
