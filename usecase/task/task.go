package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// CreateInput carries the caller-supplied fields for a new task. Creator,
// status and creation time are always assigned server-side.
type CreateInput struct {
	Title       string
	Description string
	AssignedTo  string
	StartDate   *time.Time
	EndDate     *time.Time
}

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	audit  usecase.AuditTrail
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, users repository.UserRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// List returns every task for an admin, otherwise only the tasks the actor
// created or is assigned to. Newest first.
func (uc *UseCase) List(ctx context.Context, actor *domain.User) ([]domain.ResolvedTask, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	filter := repository.TaskFilter{}
	if !actor.IsAdmin() {
		filter.InvolvedUserID = actor.ID
	}
	return uc.tasks.List(ctx, filter)
}

// Get returns a single resolved task, subject to the read policy.
func (uc *UseCase) Get(ctx context.Context, actor *domain.User, taskID string) (*domain.ResolvedTask, error) {
	resolved, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(actor, &resolved.Task, domain.OpRead) {
		return nil, domain.ErrForbidden
	}
	return resolved, nil
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.User, input CreateInput) (*domain.ResolvedTask, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	fields := map[string]string{}
	if input.Title == "" {
		fields["title"] = "title is required"
	}
	if input.Description == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if input.AssignedTo != "" {
		if _, err := uc.users.GetByID(ctx, input.AssignedTo); err != nil {
			return nil, domain.WrapError(domain.ErrCodeValidation, "assignee does not exist", err)
		}
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusActive,
		CreatedBy:   actor.ID,
		AssignedTo:  input.AssignedTo,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   uc.now(),
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.TaskMutation{
		TaskID:    created.ID,
		ActorID:   actor.ID,
		Operation: "create",
		ToStatus:  created.Status,
	})
	return created, nil
}

// Update applies a partial update. Only fields present in the patch change;
// an explicitly empty title or description is rejected rather than skipped.
func (uc *UseCase) Update(ctx context.Context, actor *domain.User, taskID string, patch domain.TaskPatch) (*domain.ResolvedTask, error) {
	existing, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(actor, &existing.Task, domain.OpUpdateFields) {
		return nil, domain.ErrForbidden
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.AssignedTo != nil && *patch.AssignedTo != "" {
		if _, err := uc.users.GetByID(ctx, *patch.AssignedTo); err != nil {
			return nil, domain.WrapError(domain.ErrCodeValidation, "assignee does not exist", err)
		}
	}

	updated, err := uc.tasks.Update(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.TaskMutation{
		TaskID:     taskID,
		ActorID:    actor.ID,
		Operation:  "update",
		FromStatus: existing.Status,
		ToStatus:   updated.Status,
	})
	return updated, nil
}

// SetStatus transitions the task status. Creator and admin may set any
// value; the assignee may only move the task into in_progress.
func (uc *UseCase) SetStatus(ctx context.Context, actor *domain.User, taskID string, status domain.Status) (*domain.ResolvedTask, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.NewValidationError(map[string]string{"status": "unknown status"})
	}
	existing, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !domain.CanSetStatus(actor, &existing.Task, status) {
		return nil, domain.ErrForbidden
	}

	updated, err := uc.tasks.SetStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.TaskMutation{
		TaskID:     taskID,
		ActorID:    actor.ID,
		Operation:  "set_status",
		FromStatus: existing.Status,
		ToStatus:   status,
	})
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, taskID string) error {
	existing, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !domain.CanAct(actor, &existing.Task, domain.OpDelete) {
		return domain.ErrForbidden
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	uc.record(ctx, usecase.TaskMutation{
		TaskID:     taskID,
		ActorID:    actor.ID,
		Operation:  "delete",
		FromStatus: existing.Status,
	})
	return nil
}

// ListUsers returns the assignment directory.
func (uc *UseCase) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.users.List(ctx)
}

func (uc *UseCase) record(ctx context.Context, m usecase.TaskMutation) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.RecordTaskMutation(ctx, m); err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("failed to record task mutation",
			zap.String("task_id", m.TaskID),
			zap.String("operation", m.Operation),
			zap.Error(err))
	}
}
