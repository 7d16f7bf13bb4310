package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// TaskFilter narrows List results. A nil/empty filter returns everything,
// which is reserved for admin listings and the overdue sweeper.
type TaskFilter struct {
	// InvolvedUserID restricts to tasks the user created or is assigned to.
	InvolvedUserID string
	// Status restricts to a single status when non-empty.
	Status domain.Status
	Limit  int
	Offset int
}

// TaskRepository persists task records. Mutations are atomic per task: a
// concurrent update and delete on the same id never observe or leave a
// partially-written row, and the returned record reflects exactly the
// mutation that was applied.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ResolvedTask, error)
	// List returns resolved tasks ordered by creation time, newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.ResolvedTask, error)
	Create(ctx context.Context, task *domain.Task) (*domain.ResolvedTask, error)
	// Update applies the patch to the stored row under a per-row lock and
	// returns the post-write resolved record.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.ResolvedTask, error)
	// SetStatus transitions the task status under the same per-row lock.
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.ResolvedTask, error)
	Delete(ctx context.Context, id string) error
	// ListOverdue returns non-completed tasks whose end date precedes now.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.ResolvedTask, error)
}
