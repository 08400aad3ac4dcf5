package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// WorkOrderRepository defines persistence access for scheduled repairs.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	Update(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListByIssue(ctx context.Context, issueID string) ([]domain.WorkOrder, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository returns a Postgres-backed implementation.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (issue_id, assignee_staff_id, status, scheduled_for, labor_hours, parts_cost, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.IssueID,
		order.AssigneeID,
		order.Status,
		order.ScheduledFor,
		order.LaborHours,
		order.PartsCost,
		order.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *workOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET assignee_staff_id=$1, status=$2, scheduled_for=$3, labor_hours=$4,
            parts_cost=$5, notes=$6, completed_at=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		order.AssigneeID,
		order.Status,
		order.ScheduledFor,
		order.LaborHours,
		order.PartsCost,
		order.Notes,
		order.CompletedAt,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	const query = `
        SELECT id, issue_id, assignee_staff_id, status, scheduled_for, labor_hours, parts_cost, notes, completed_at, created_at, updated_at
        FROM work_orders WHERE id=$1`

	var order domain.WorkOrder
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.IssueID,
		&order.AssigneeID,
		&order.Status,
		&order.ScheduledFor,
		&order.LaborHours,
		&order.PartsCost,
		&order.Notes,
		&order.CompletedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.WorkOrder, error) {
	const query = `
        SELECT id, issue_id, assignee_staff_id, status, scheduled_for, labor_hours, parts_cost, notes, completed_at, created_at, updated_at
        FROM work_orders WHERE issue_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkOrder
	for rows.Next() {
		var order domain.WorkOrder
		if err := rows.Scan(
			&order.ID,
			&order.IssueID,
			&order.AssigneeID,
			&order.Status,
			&order.ScheduledFor,
			&order.LaborHours,
			&order.PartsCost,
			&order.Notes,
			&order.CompletedAt,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
