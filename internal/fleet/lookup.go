package fleet

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

const (
	defaultUtilization = 85
	defaultRepairHours = 4
)

// Lookups aggregates the fleet-side data sources feeding triage. Every lookup
// degrades to a documented default instead of failing.
type Lookups struct {
	redis  *redis.Client
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewLookups constructs the lookup set.
func NewLookups(redisClient *redis.Client, pool *pgxpool.Pool, logger *zap.Logger) *Lookups {
	return &Lookups{redis: redisClient, pool: pool, logger: logger}
}

// FleetUtilization returns the cached utilization percentage for a fleet
// number, defaulting to 85 when the cache misses or errors.
func (l *Lookups) FleetUtilization(ctx context.Context, fleetNumber string) float64 {
	if l.redis == nil {
		return defaultUtilization
	}
	raw, err := l.redis.Get(ctx, "fleet:utilization:"+fleetNumber).Result()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("utilization lookup failed", zap.String("fleet_number", fleetNumber), zap.Error(err))
		}
		return defaultUtilization
	}
	utilization, err := strconv.ParseFloat(raw, 64)
	if err != nil || utilization < 0 || utilization > 100 {
		return defaultUtilization
	}
	return utilization
}

// RouteCriticality buckets a fleet number into a criticality band. Vehicles
// are numbered by route assignment: 400–449 run critical routes, 300–399
// high, 200–299 medium, everything else low.
func RouteCriticality(fleetNumber string) domain.IssueSeverity {
	n, err := strconv.Atoi(fleetNumber)
	if err != nil {
		return domain.SeverityLow
	}
	switch {
	case n >= 400 && n <= 449:
		return domain.SeverityCritical
	case n >= 300 && n <= 399:
		return domain.SeverityHigh
	case n >= 200 && n <= 299:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// HistoricalRepairHours averages labor hours of completed work orders for the
// category/severity pair, defaulting to 4 when no history exists.
func (l *Lookups) HistoricalRepairHours(ctx context.Context, category domain.IssueCategory, severity domain.IssueSeverity) float64 {
	if l.pool == nil {
		return defaultRepairHours
	}
	const query = `
        SELECT COALESCE(AVG(w.labor_hours), 0)
        FROM work_orders w
        JOIN issues i ON i.id = w.issue_id
        WHERE w.status = 'COMPLETED' AND w.labor_hours IS NOT NULL
          AND i.category = $1 AND i.severity = $2`

	var hours float64
	if err := l.pool.QueryRow(ctx, query, category, severity).Scan(&hours); err != nil {
		l.logger.Warn("repair history lookup failed",
			zap.String("category", string(category)),
			zap.String("severity", string(severity)),
			zap.Error(err))
		return defaultRepairHours
	}
	if hours <= 0 {
		return defaultRepairHours
	}
	return hours
}

// PartsAvailable checks the cached stock flag for a category, defaulting to
// available when the cache misses or errors.
func (l *Lookups) PartsAvailable(ctx context.Context, category domain.IssueCategory) bool {
	if l.redis == nil {
		return true
	}
	raw, err := l.redis.Get(ctx, "fleet:parts:"+string(category)).Result()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("parts lookup failed", zap.String("category", string(category)), zap.Error(err))
		}
		return true
	}
	available, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return available
}
