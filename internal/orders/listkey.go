package orders

import "fmt"

// ListKey names the refresh-signal key of one actor's order list. The
// switch is exhaustive over the role set on purpose; a new role must be
// given a key shape here before it can be signalled.
func ListKey(role Role, ownerID string) string {
	switch role {
	case RoleCustomer:
		return fmt.Sprintf("orders:customer:%s", ownerID)
	case RoleVendor:
		return fmt.Sprintf("orders:vendor:%s", ownerID)
	case RoleShipper:
		// Shippers share one hub-wide list.
		return "orders:shipper"
	default:
		panic(fmt.Sprintf("orders: unknown role %q", role))
	}
}
