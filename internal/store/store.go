package store

import (
	"context"
	"errors"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/pkg/idx"
)

// Sentinel errors every driver maps its native failures onto. Callers match
// with errors.Is and never see driver-specific error types.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Users is the user repository.
type Users interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id idx.ID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error
}

// VehicleFilter narrows ListVehicles. The zero value lists published
// vehicles only.
type VehicleFilter struct {
	// OwnerID, when set, restricts results to one owner's vehicles.
	OwnerID idx.ID
	// IncludeUnpublished also returns unpublished listings. Only set this
	// after an ownership or admin check.
	IncludeUnpublished bool
}

// Vehicles is the vehicle listing repository.
type Vehicles interface {
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	GetVehicleByID(ctx context.Context, id idx.ID) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)
	UpdateDailyRate(ctx context.Context, id idx.ID, dailyRateCents int64) error
}

// Store is the persistence boundary the services depend on. Services receive
// it injected and never know which driver backs it.
type Store interface {
	Users() Users
	Vehicles() Vehicles

	ApplyMigrations() error
	Ping(ctx context.Context) error
	Close() error
}
