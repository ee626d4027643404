package orders

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a mutex-guarded in-process Store with the same CAS
// semantics as the Mongo implementation. It backs tests and single-node
// development runs.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[primitive.ObjectID]Order)}
}

func (s *MemoryStore) Load(_ context.Context, id primitive.ObjectID) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return order, nil
}

func (s *MemoryStore) Insert(_ context.Context, order Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, id primitive.ObjectID, expectedVersion int64, mutated Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if current.Version != expectedVersion {
		return Order{}, ErrConflict
	}

	mutated.ID = id
	mutated.Version = expectedVersion + 1
	s.orders[id] = mutated
	return mutated, nil
}

func (s *MemoryStore) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]Order, error) {
	return s.collect(func(o Order) bool {
		return o.CustomerID == customerID
	}), nil
}

func (s *MemoryStore) ListByVendor(_ context.Context, vendorID primitive.ObjectID, includeRejected bool) ([]Order, error) {
	return s.collect(func(o Order) bool {
		if o.VendorID != vendorID {
			return false
		}
		return includeRejected || o.VendorDecision != DecisionRejected
	}), nil
}

func (s *MemoryStore) ListForShipper(_ context.Context) ([]Order, error) {
	return s.collect(func(o Order) bool {
		return o.Status == StatusActive
	}), nil
}

func (s *MemoryStore) collect(match func(Order) bool) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []Order
	for _, order := range s.orders {
		if match(order) {
			results = append(results, order)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results
}
