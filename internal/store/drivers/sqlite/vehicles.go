package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/idx"
)

type vehiclesRepo struct {
	db *sql.DB
}

const vehicleColumns = `id, owner_id, make, model, year, daily_rate_cents, published, created_at, updated_at`

func (r *vehiclesRepo) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID.String(), v.OwnerID.String(), v.Make, v.Model, v.Year,
		v.DailyRateCents, v.Published, v.CreatedAt, v.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *vehiclesRepo) GetVehicleByID(ctx context.Context, id idx.ID) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id.String())

	v, err := scanVehicle(row.Scan)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (r *vehiclesRepo) ListVehicles(ctx context.Context, filter store.VehicleFilter) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE 1=1`
	var args []any

	if !filter.OwnerID.IsZero() {
		query += ` AND owner_id = ?`
		args = append(args, filter.OwnerID.String())
	}
	if !filter.IncludeUnpublished {
		query += ` AND published = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) UpdateDailyRate(ctx context.Context, id idx.ID, dailyRateCents int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehicles SET daily_rate_cents = ?, updated_at = ? WHERE id = ?`,
		dailyRateCents, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanVehicle(scan func(dest ...any) error) (*domain.Vehicle, error) {
	var (
		v       domain.Vehicle
		id      string
		ownerID string
	)
	err := scan(&id, &ownerID, &v.Make, &v.Model, &v.Year,
		&v.DailyRateCents, &v.Published, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if v.ID, err = idx.Parse(id); err != nil {
		return nil, err
	}
	if v.OwnerID, err = idx.Parse(ownerID); err != nil {
		return nil, err
	}
	return &v, nil
}
