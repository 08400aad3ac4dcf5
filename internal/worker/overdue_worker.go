package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/config"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/repository"
)

// OverdueWorker periodically re-publishes update events for issues that are
// still sitting in REPORTED or TRIAGED. The aging notification rule keys off
// these synthetic updates, so untouched issues surface without waiting for a
// real status change.
type OverdueWorker struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.TriageConfig
	cron       *cron.Cron
}

// NewOverdueWorker constructs the worker.
func NewOverdueWorker(issues repository.IssueRepository, dispatcher events.Dispatcher, cfg config.TriageConfig, logger *zap.Logger) *OverdueWorker {
	return &OverdueWorker{
		issues:     issues,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(),
	}
}

// Start schedules the scan on the configured cron spec.
func (w *OverdueWorker) Start() error {
	_, err := w.cron.AddFunc(w.cfg.OverdueCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		w.Scan(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("overdue scanner started", zap.String("cron", w.cfg.OverdueCronSpec))
	return nil
}

// Stop halts the scheduler and waits for a running scan to finish.
func (w *OverdueWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// Scan re-publishes update events for the unresolved backlog. Age filtering
// happens downstream in the notification rules.
func (w *OverdueWorker) Scan(ctx context.Context) {
	issues, err := w.issues.ListWithFilter(ctx, repository.IssueFilter{
		Statuses: []domain.IssueStatus{domain.IssueStatusReported, domain.IssueStatusTriaged},
		Limit:    w.cfg.OverdueBatchSize,
	})
	if err != nil {
		w.logger.Warn("overdue scan failed", zap.Error(err))
		return
	}

	for _, issue := range issues {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventIssueUpdated,
			IssueID:   issue.ID,
			Actor:     events.Actor{Type: domain.SubjectTypeSystem},
			Timestamp: time.Now(),
			Payload: events.IssueUpdatedPayload{
				Issue:     issue,
				OldStatus: issue.Status,
			},
		}
		if err := w.dispatcher.Publish(ctx, event); err != nil {
			w.logger.Warn("overdue publish failed", zap.String("issue_id", issue.ID), zap.Error(err))
		}
	}

	if len(issues) > 0 {
		w.logger.Info("overdue scan completed", zap.Int("issues", len(issues)))
	}
}
