package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// DriverRepository defines persistence access for drivers.
type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) error
	Update(ctx context.Context, driver *domain.Driver) error
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	GetByEmail(ctx context.Context, email string) (*domain.Driver, error)
}

type driverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository returns a Postgres-backed implementation.
func NewDriverRepository(pool *pgxpool.Pool) DriverRepository {
	return &driverRepository{pool: pool}
}

func (r *driverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	const query = `
        INSERT INTO drivers (name, email, phone, password_hash, experience, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.PasswordHash,
		driver.Experience,
		driver.Status,
	).Scan(&driver.ID, &driver.CreatedAt, &driver.UpdatedAt)
}

func (r *driverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	const query = `
        UPDATE drivers SET name=$1, email=$2, phone=$3, password_hash=$4, experience=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.PasswordHash,
		driver.Experience,
		driver.Status,
		driver.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	const query = `
        SELECT id, name, email, phone, password_hash, experience, status, created_at, updated_at
        FROM drivers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *driverRepository) GetByEmail(ctx context.Context, email string) (*domain.Driver, error) {
	const query = `
        SELECT id, name, email, phone, password_hash, experience, status, created_at, updated_at
        FROM drivers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *driverRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Driver, error) {
	var driver domain.Driver
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Email,
		&driver.Phone,
		&driver.PasswordHash,
		&driver.Experience,
		&driver.Status,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &driver, nil
}
