package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// VehicleRepository defines persistence access for fleet vehicles.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	GetByFleetNumber(ctx context.Context, fleetNumber string) (*domain.Vehicle, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Vehicle, error)
}

type vehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository returns a Postgres-backed implementation.
func NewVehicleRepository(pool *pgxpool.Pool) VehicleRepository {
	return &vehicleRepository{pool: pool}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        INSERT INTO vehicles (fleet_number, make, model, year, active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		vehicle.FleetNumber,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Active,
	).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        UPDATE vehicles SET fleet_number=$1, make=$2, model=$3, year=$4, active=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		vehicle.FleetNumber,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Active,
		vehicle.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	const query = `
        SELECT id, fleet_number, make, model, year, active, created_at, updated_at
        FROM vehicles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *vehicleRepository) GetByFleetNumber(ctx context.Context, fleetNumber string) (*domain.Vehicle, error) {
	const query = `
        SELECT id, fleet_number, make, model, year, active, created_at, updated_at
        FROM vehicles WHERE fleet_number=$1`
	return r.fetchSingle(ctx, query, fleetNumber)
}

func (r *vehicleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&vehicle.ID,
		&vehicle.FleetNumber,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Active,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, includeInactive bool) ([]domain.Vehicle, error) {
	query := `SELECT id, fleet_number, make, model, year, active, created_at, updated_at
              FROM vehicles`
	if !includeInactive {
		query += ` WHERE active=true`
	}
	query += ` ORDER BY fleet_number ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(
			&vehicle.ID,
			&vehicle.FleetNumber,
			&vehicle.Make,
			&vehicle.Model,
			&vehicle.Year,
			&vehicle.Active,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, vehicle)
	}
	return result, rows.Err()
}
