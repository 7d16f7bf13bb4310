package domain

import "time"

// TaskPatch describes a partial update. A nil field means "leave untouched";
// a non-nil field is applied even when it points at a zero value, so an
// explicit empty string or null date is distinguishable from an omitted one.
type TaskPatch struct {
	Title       *string
	Description *string
	AssignedTo  *string
	StartDate   *time.Time
	EndDate     *time.Time

	// ClearStartDate / ClearEndDate / ClearAssignee request removal of the
	// optional field; they win over the corresponding pointer.
	ClearStartDate bool
	ClearEndDate   bool
	ClearAssignee  bool
}

// Empty reports whether the patch carries no changes at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.AssignedTo == nil &&
		p.StartDate == nil && p.EndDate == nil &&
		!p.ClearStartDate && !p.ClearEndDate && !p.ClearAssignee
}

// Validate rejects present-but-empty values for fields the model requires to
// be non-empty. Optional fields may be cleared freely.
func (p TaskPatch) Validate() error {
	fields := map[string]string{}
	if p.Title != nil && *p.Title == "" {
		fields["title"] = "title must not be empty"
	}
	if p.Description != nil && *p.Description == "" {
		fields["description"] = "description must not be empty"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// Apply copies the present fields onto the task.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	switch {
	case p.ClearAssignee:
		t.AssignedTo = ""
	case p.AssignedTo != nil:
		t.AssignedTo = *p.AssignedTo
	}
	switch {
	case p.ClearStartDate:
		t.StartDate = nil
	case p.StartDate != nil:
		d := *p.StartDate
		t.StartDate = &d
	}
	switch {
	case p.ClearEndDate:
		t.EndDate = nil
	case p.EndDate != nil:
		d := *p.EndDate
		t.EndDate = &d
	}
}
