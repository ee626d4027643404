package orders

import "fmt"

// Role is the closed set of actors that may read or mutate orders. Adding a
// role means extending every switch over this type, which is intentional.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleShipper  Role = "shipper"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleCustomer, RoleVendor, RoleShipper:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role: %q", value)
	}
}
