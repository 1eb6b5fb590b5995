package service

import (
	"context"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/idx"
	"github.com/driveway/driveway/pkg/slogx"
)

// VehicleService owns the vehicle listing operations.
type VehicleService struct {
	Store store.Store
}

// CreateVehicleParams carries the validated listing input.
type CreateVehicleParams struct {
	Make           string
	Model          string
	Year           int
	DailyRateCents int64
	Published      bool
}

// List returns the vehicles visible to viewer. Anonymous viewers and
// customers see published listings only; owners additionally see their own
// unpublished listings; admins see everything.
func (s *VehicleService) List(ctx context.Context, viewer *domain.Principal) ([]*domain.Vehicle, error) {
	filter := store.VehicleFilter{}

	switch {
	case viewer == nil:
	case viewer.IsAdmin():
		filter.IncludeUnpublished = true
	case viewer.Is(domain.RoleOwner):
		// Published listings from everyone plus the owner's own drafts.
		published, err := s.Store.Vehicles().ListVehicles(ctx, store.VehicleFilter{})
		if err != nil {
			return nil, err
		}
		own, err := s.Store.Vehicles().ListVehicles(ctx, store.VehicleFilter{
			OwnerID:            viewer.ID,
			IncludeUnpublished: true,
		})
		if err != nil {
			return nil, err
		}
		return mergeVehicles(published, own), nil
	}

	return s.Store.Vehicles().ListVehicles(ctx, filter)
}

// Get returns one vehicle, applying the same visibility rule as List.
func (s *VehicleService) Get(ctx context.Context, viewer *domain.Principal, id idx.ID) (*domain.Vehicle, error) {
	v, err := s.Store.Vehicles().GetVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !v.Published {
		if viewer == nil || (!viewer.IsAdmin() && viewer.ID != v.OwnerID) {
			// Hidden listings look identical to missing ones.
			return nil, store.ErrNotFound
		}
	}
	return v, nil
}

// Create adds a listing owned by ownerID.
func (s *VehicleService) Create(ctx context.Context, ownerID idx.ID, p CreateVehicleParams) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		ID:             idx.New(),
		OwnerID:        ownerID,
		Make:           p.Make,
		Model:          p.Model,
		Year:           p.Year,
		DailyRateCents: p.DailyRateCents,
		Published:      p.Published,
	}

	if err := s.Store.Vehicles().CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("vehicle created", "vehicle_id", v.ID.String(), "owner_id", ownerID.String())
	return v, nil
}

// UpdateRate changes the daily rate of an existing listing. Ownership is
// checked by the authorization middleware before this runs.
func (s *VehicleService) UpdateRate(ctx context.Context, id idx.ID, dailyRateCents int64) (*domain.Vehicle, error) {
	if err := s.Store.Vehicles().UpdateDailyRate(ctx, id, dailyRateCents); err != nil {
		return nil, err
	}
	return s.Store.Vehicles().GetVehicleByID(ctx, id)
}

// OwnerID resolves the owning user of a vehicle. Plugged into the ownership
// middleware so it can authorize without knowing about vehicles.
func (s *VehicleService) OwnerID(ctx context.Context, id idx.ID) (idx.ID, error) {
	v, err := s.Store.Vehicles().GetVehicleByID(ctx, id)
	if err != nil {
		return idx.Zero, err
	}
	return v.OwnerID, nil
}

func mergeVehicles(a, b []*domain.Vehicle) []*domain.Vehicle {
	seen := make(map[idx.ID]struct{}, len(a))
	out := make([]*domain.Vehicle, 0, len(a)+len(b))
	for _, v := range a {
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	for _, v := range b {
		if _, ok := seen[v.ID]; !ok {
			out = append(out, v)
		}
	}
	return out
}
