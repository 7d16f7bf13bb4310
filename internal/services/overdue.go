package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// SweepActorID identifies the system actor in audit entries written by the
// sweeper.
const SweepActorID = "system:overdue-sweep"

// OverdueSweeper completes tasks whose end date has passed, as an explicit,
// logged and audited transition. Display layers may already render such
// tasks as completed; this job is the only place the stored status catches
// up.
type OverdueSweeper struct {
	tasks    repository.TaskRepository
	audit    usecase.AuditTrail
	schedule string
	logger   *zap.Logger

	cron *cron.Cron
	now  func() time.Time
}

func NewOverdueSweeper(tasks repository.TaskRepository, audit usecase.AuditTrail, schedule string, logger *zap.Logger) *OverdueSweeper {
	if schedule == "" {
		schedule = "@hourly"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueSweeper{
		tasks:    tasks,
		audit:    audit,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the cron entry and begins sweeping on schedule.
func (s *OverdueSweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("overdue sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("overdue sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Sweep performs one pass and returns how many tasks were completed.
func (s *OverdueSweeper) Sweep(ctx context.Context) (int, error) {
	overdue, err := s.tasks.ListOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, task := range overdue {
		updated, err := s.tasks.SetStatus(ctx, task.ID, domain.StatusCompleted)
		if err != nil {
			// The task may have been deleted or completed concurrently;
			// skip it and keep sweeping.
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			s.logger.Error("failed to complete overdue task",
				zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		completed++
		s.logger.Info("overdue task completed",
			zap.String("task_id", updated.ID),
			zap.Time("end_date", *task.EndDate))

		if s.audit != nil {
			if err := s.audit.RecordTaskMutation(ctx, usecase.TaskMutation{
				TaskID:     task.ID,
				ActorID:    SweepActorID,
				Operation:  "overdue_sweep",
				FromStatus: task.Status,
				ToStatus:   domain.StatusCompleted,
			}); err != nil {
				s.logger.Error("failed to record sweep audit entry",
					zap.String("task_id", task.ID), zap.Error(err))
			}
		}
	}
	return completed, nil
}
