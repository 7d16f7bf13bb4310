package domain

import "time"

// Status tracks where a task sits in its lifecycle.
type Status string

const (
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether the value is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work owned by its creator and optionally
// assigned to another user. CreatedBy is set once at creation and never
// changes.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// Overdue reports whether the task has an end date in the past and is not
// completed yet. Display layers may render such tasks as completed; the
// stored status only changes through an explicit transition.
func (t *Task) Overdue(now time.Time) bool {
	if t == nil || t.EndDate == nil || t.IsCompleted() {
		return false
	}
	return t.EndDate.Before(now)
}

// ResolvedTask is a task with its creator and assignee references joined to
// display attributes for presentation.
type ResolvedTask struct {
	Task
	Creator  UserRef  `json:"creator"`
	Assignee *UserRef `json:"assignee,omitempty"`
}
