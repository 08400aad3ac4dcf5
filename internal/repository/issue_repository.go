package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// IssueFilter captures listing parameters.
type IssueFilter struct {
	DriverID     *string
	FleetNumber  *string
	Categories   []domain.IssueCategory
	Severities   []domain.IssueSeverity
	Statuses     []domain.IssueStatus
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	UpdatedUntil *time.Time
	Limit        int
	Offset       int
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (external_key, driver_id, fleet_number, category, severity, status, title, description, location, estimated_cost)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.ExternalKey,
		issue.DriverID,
		issue.FleetNumber,
		issue.Category,
		issue.Severity,
		issue.Status,
		issue.Title,
		issue.Description,
		issue.Location,
		issue.EstimatedCost,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET fleet_number=$1, category=$2, severity=$3, status=$4, title=$5,
            description=$6, location=$7, estimated_cost=$8, resolved_at=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		issue.FleetNumber,
		issue.Category,
		issue.Severity,
		issue.Status,
		issue.Title,
		issue.Description,
		issue.Location,
		issue.EstimatedCost,
		issue.ResolvedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `
        SELECT id, external_key, driver_id, fleet_number, category, severity, status,
               title, description, location, estimated_cost, created_at, updated_at, resolved_at
        FROM issues WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *issueRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Issue, error) {
	const query = `
        SELECT id, external_key, driver_id, fleet_number, category, severity, status,
               title, description, location, estimated_cost, created_at, updated_at, resolved_at
        FROM issues WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *issueRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Issue, error) {
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&issue.ID,
		&issue.ExternalKey,
		&issue.DriverID,
		&issue.FleetNumber,
		&issue.Category,
		&issue.Severity,
		&issue.Status,
		&issue.Title,
		&issue.Description,
		&issue.Location,
		&issue.EstimatedCost,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	base := `SELECT id, external_key, driver_id, fleet_number, category, severity, status,
                    title, description, location, estimated_cost, created_at, updated_at, resolved_at
             FROM issues`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		clauses = append(clauses, fmt.Sprintf("driver_id=$%d", len(args)))
	}
	if filter.FleetNumber != nil {
		args = append(args, *filter.FleetNumber)
		clauses = append(clauses, fmt.Sprintf("fleet_number=$%d", len(args)))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Severities) > 0 {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			args = append(args, severity)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.UpdatedUntil != nil {
		args = append(args, *filter.UpdatedUntil)
		clauses = append(clauses, fmt.Sprintf("updated_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.ExternalKey,
			&issue.DriverID,
			&issue.FleetNumber,
			&issue.Category,
			&issue.Severity,
			&issue.Status,
			&issue.Title,
			&issue.Description,
			&issue.Location,
			&issue.EstimatedCost,
			&issue.CreatedAt,
			&issue.UpdatedAt,
			&issue.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
