package domain

import "fmt"

// Role is the marketplace role a user acts under. Roles form a closed set:
// anything outside it is rejected at the boundary rather than stored.
type Role string

const (
	// RoleCustomer rents vehicles.
	RoleCustomer Role = "customer"
	// RoleOwner lists vehicles for rent.
	RoleOwner Role = "owner"
	// RoleAdmin can act on any resource.
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string against the known set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
