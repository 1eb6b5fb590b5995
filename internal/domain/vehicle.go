package domain

import (
	"time"

	"github.com/driveway/driveway/pkg/idx"
)

// Vehicle is a listing owned by a user with the owner role. Unpublished
// vehicles are visible only to their owner and admins.
type Vehicle struct {
	ID             idx.ID    `json:"id"`
	OwnerID        idx.ID    `json:"ownerId"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	DailyRateCents int64     `json:"dailyRateCents"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
