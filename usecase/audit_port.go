package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// TaskMutation describes a completed task mutation for the audit trail.
type TaskMutation struct {
	TaskID     string
	ActorID    string
	Operation  string
	FromStatus domain.Status
	ToStatus   domain.Status
}

// AuditTrail abstracts the audit store so use cases stay storage-agnostic.
// Recording failures never fail the mutation itself; implementations and
// callers log and move on.
type AuditTrail interface {
	RecordTaskMutation(ctx context.Context, m TaskMutation) error
}
