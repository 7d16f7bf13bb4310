package domain

// Operation identifies a task action subject to authorization.
type Operation string

const (
	OpRead         Operation = "read"
	OpCreate       Operation = "create"
	OpUpdateFields Operation = "update_fields"
	OpDelete       Operation = "delete"
	OpSetStatus    Operation = "set_status"
)

// CanAct decides whether the actor may perform the operation on the task.
// It is pure and total: every input maps to exactly one outcome and it never
// panics, including on nil receivers. For OpSetStatus use CanSetStatus, which
// also weighs the target value; CanAct treats it as the creator/admin case.
func CanAct(actor *User, task *Task, op Operation) bool {
	if actor == nil {
		return false
	}
	if op == OpCreate {
		return true
	}
	if task == nil {
		return false
	}
	switch op {
	case OpRead:
		return actor.IsAdmin() || actor.ID == task.CreatedBy || (task.AssignedTo != "" && actor.ID == task.AssignedTo)
	case OpUpdateFields, OpDelete, OpSetStatus:
		return actor.IsAdmin() || actor.ID == task.CreatedBy
	default:
		return false
	}
}

// CanSetStatus decides whether the actor may move the task to the target
// status. Creator and admin may set any value; the assignee may only move
// the task into in_progress.
func CanSetStatus(actor *User, task *Task, target Status) bool {
	if actor == nil || task == nil {
		return false
	}
	if actor.IsAdmin() || actor.ID == task.CreatedBy {
		return true
	}
	if task.AssignedTo != "" && actor.ID == task.AssignedTo {
		return target == StatusInProgress
	}
	return false
}
