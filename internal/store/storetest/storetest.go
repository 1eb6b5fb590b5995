// Package storetest provides an in-memory store.Store for service and
// handler tests. It honours the same sentinel errors as the real drivers.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/idx"
)

// Store is a thread-safe in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	users    map[idx.ID]*domain.User
	vehicles map[idx.ID]*domain.Vehicle
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[idx.ID]*domain.User),
		vehicles: make(map[idx.ID]*domain.Vehicle),
	}
}

func (s *Store) Users() store.Users       { return (*userRepo)(s) }
func (s *Store) Vehicles() store.Vehicles { return (*vehicleRepo)(s) }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

type userRepo Store

func (r *userRepo) CreateUser(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrAlreadyExists
		}
	}

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id idx.ID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type vehicleRepo Store

func (r *vehicleRepo) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[v.ID]; ok {
		return store.ErrAlreadyExists
	}
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *vehicleRepo) GetVehicleByID(ctx context.Context, id idx.ID) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *vehicleRepo) ListVehicles(ctx context.Context, filter store.VehicleFilter) ([]*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if !filter.OwnerID.IsZero() && v.OwnerID != filter.OwnerID {
			continue
		}
		if !v.Published && !filter.IncludeUnpublished {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *vehicleRepo) UpdateDailyRate(ctx context.Context, id idx.ID, dailyRateCents int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return store.ErrNotFound
	}
	v.DailyRateCents = dailyRateCents
	v.UpdatedAt = time.Now().UTC()
	return nil
}
