package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
)

const (
	OperationCreate    = "create"
	OperationUpdate    = "update"
	OperationSetStatus = "set_status"
	OperationDelete    = "delete"
	OperationSweep     = "overdue_sweep"
)

// Entry records a single task mutation: who did what to which task, and the
// status movement when the operation changed it.
type Entry struct {
	ID         string        `json:"id"`
	TaskID     string        `json:"task_id"`
	ActorID    string        `json:"actor_id"`
	Operation  string        `json:"operation"`
	FromStatus domain.Status `json:"from_status,omitempty"`
	ToStatus   domain.Status `json:"to_status,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
