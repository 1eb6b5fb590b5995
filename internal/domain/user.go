package domain

import (
	"time"

	"github.com/driveway/driveway/pkg/idx"
)

// User is a marketplace account. PasswordHash is the argon2id PHC string and
// never leaves the service layer.
type User struct {
	ID           idx.ID    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
