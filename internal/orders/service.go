package orders

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"furnimarket/internal/notify"
)

// Service coordinates transitions and role views over the entity store.
// Every mutation goes load -> validate -> compare-and-swap, so of two
// racing actors exactly one commits; the loser is re-validated against the
// fresh snapshot and usually reported as an invalid transition rather than
// a bare conflict.
type Service struct {
	store  Store
	signal notify.Signal
}

func NewService(store Store, signal notify.Signal) *Service {
	return &Service{store: store, signal: signal}
}

/* =========================
   TRANSITIONS
========================= */

// SubmitCustomerCancel cancels a PENDING order on behalf of its customer.
func (s *Service) SubmitCustomerCancel(ctx context.Context, orderID, customerID primitive.ObjectID, reason Reason) (Order, error) {
	if err := reason.Validate(); err != nil {
		return Order{}, err
	}

	return s.transition(ctx, orderID, RoleCustomer, ActionCancel, reason, func(order Order) bool {
		return order.CustomerID == customerID
	})
}

// SubmitVendorDecision applies ACCEPT or REJECT for the vendor that owns
// the order.
func (s *Service) SubmitVendorDecision(ctx context.Context, orderID, vendorID primitive.ObjectID, action Action, reason Reason) (Order, error) {
	switch action {
	case ActionAccept:
	case ActionReject:
		if err := reason.Validate(); err != nil {
			return Order{}, err
		}
	default:
		return Order{}, &ValidationError{Field: "action", Detail: "must be ACCEPT or REJECT"}
	}

	return s.transition(ctx, orderID, RoleVendor, action, reason, func(order Order) bool {
		return order.VendorID == vendorID
	})
}

// SubmitShipperDelivered marks an ACTIVE, vendor-accepted order delivered.
func (s *Service) SubmitShipperDelivered(ctx context.Context, orderID primitive.ObjectID) (Order, error) {
	return s.transition(ctx, orderID, RoleShipper, ActionMarkDelivered, Reason{}, func(Order) bool {
		return true
	})
}

// transition runs one attempt against the store. An owns check failing is
// reported as NotFound so actors cannot probe for foreign order ids. A lost
// CAS re-reads once: if the action is no longer legal against the fresh
// state the caller gets InvalidTransition carrying that state, otherwise
// the raw conflict surfaces and the caller may re-offer the action.
func (s *Service) transition(ctx context.Context, orderID primitive.ObjectID, role Role, action Action, reason Reason, owns func(Order) bool) (Order, error) {
	order, err := s.store.Load(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !owns(order) {
		return Order{}, ErrNotFound
	}

	mutated, err := AttemptTransition(order, role, action, reason)
	if err != nil {
		return Order{}, err
	}

	committed, err := s.store.CompareAndSwap(ctx, orderID, order.Version, mutated)
	if errors.Is(err, ErrConflict) {
		fresh, loadErr := s.store.Load(ctx, orderID)
		if loadErr != nil {
			return Order{}, loadErr
		}
		if _, retryErr := AttemptTransition(fresh, role, action, reason); retryErr != nil {
			return Order{}, retryErr
		}
		return Order{}, ErrConflict
	}
	if err != nil {
		return Order{}, err
	}

	s.invalidate(ctx, committed)
	return committed, nil
}

func (s *Service) invalidate(ctx context.Context, order Order) {
	keys := []string{
		ListKey(RoleCustomer, order.CustomerID.Hex()),
		ListKey(RoleVendor, order.VendorID.Hex()),
		ListKey(RoleShipper, ""),
	}
	if err := s.signal.Invalidate(ctx, keys...); err != nil {
		// The signal is advisory; a missed tick only delays a refetch.
		log.Println("[ORDERS] [WARN] refresh invalidation failed:", err)
	}
}

/* =========================
   ROLE VIEWS
========================= */

func (s *Service) GetCustomerView(ctx context.Context, orderID, customerID primitive.ObjectID) (CustomerView, error) {
	order, err := s.store.Load(ctx, orderID)
	if err != nil {
		return CustomerView{}, err
	}
	if order.CustomerID != customerID {
		return CustomerView{}, ErrNotFound
	}
	return ProjectCustomer(order), nil
}

func (s *Service) GetVendorView(ctx context.Context, orderID, vendorID primitive.ObjectID) (VendorView, error) {
	order, err := s.store.Load(ctx, orderID)
	if err != nil {
		return VendorView{}, err
	}
	if order.VendorID != vendorID {
		return VendorView{}, ErrNotFound
	}
	return ProjectVendor(order, vendorID), nil
}

func (s *Service) GetShipperView(ctx context.Context, orderID primitive.ObjectID) (ShipperView, error) {
	order, err := s.store.Load(ctx, orderID)
	if err != nil {
		return ShipperView{}, err
	}
	return ProjectShipper(order), nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, customerID primitive.ObjectID) ([]CustomerView, error) {
	found, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	views := make([]CustomerView, 0, len(found))
	for _, order := range found {
		views = append(views, ProjectCustomer(order))
	}
	return views, nil
}

// ListVendorOrders omits REJECTED orders; they stay reachable through
// GetVendorView.
func (s *Service) ListVendorOrders(ctx context.Context, vendorID primitive.ObjectID) ([]VendorView, error) {
	found, err := s.store.ListByVendor(ctx, vendorID, false)
	if err != nil {
		return nil, err
	}

	views := make([]VendorView, 0, len(found))
	for _, order := range found {
		views = append(views, ProjectVendor(order, vendorID))
	}
	return views, nil
}

func (s *Service) ListShipperOrders(ctx context.Context) ([]ShipperView, error) {
	found, err := s.store.ListForShipper(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ShipperView, 0, len(found))
	for _, order := range found {
		views = append(views, ProjectShipper(order))
	}
	return views, nil
}

// RefreshTicks reports the current tick of one actor's order list so list
// views can poll for staleness.
func (s *Service) RefreshTicks(ctx context.Context, role Role, ownerID string) (map[string]int64, error) {
	return s.signal.Ticks(ctx, ListKey(role, ownerID))
}
