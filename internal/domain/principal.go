package domain

import "github.com/driveway/driveway/pkg/idx"

// Principal is the authenticated identity attached to a request after token
// verification. It carries only what authorization decisions need, not the
// full user record.
type Principal struct {
	ID    idx.ID
	Email string
	Role  Role
}

// Is reports whether the principal holds the given role.
func (p Principal) Is(role Role) bool { return p.Role == role }

// IsAdmin reports whether the principal can bypass ownership checks.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
