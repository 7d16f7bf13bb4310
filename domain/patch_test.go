package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestPatchApplyOmittedVsPresent(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := Task{Title: "original", Description: "desc", AssignedTo: "u2", StartDate: &start}

	patch := TaskPatch{Title: strPtr("renamed")}
	patch.Apply(&task)

	if task.Title != "renamed" {
		t.Errorf("title = %q, want renamed", task.Title)
	}
	if task.Description != "desc" || task.AssignedTo != "u2" || task.StartDate == nil {
		t.Error("omitted fields must stay untouched")
	}
}

func TestPatchClearOptionalFields(t *testing.T) {
	end := time.Now()
	task := Task{Title: "x", Description: "y", AssignedTo: "u2", EndDate: &end}

	TaskPatch{ClearAssignee: true, ClearEndDate: true}.Apply(&task)

	if task.AssignedTo != "" {
		t.Errorf("assignee = %q, want cleared", task.AssignedTo)
	}
	if task.EndDate != nil {
		t.Error("end date must be cleared")
	}
}

func TestPatchValidateEmptyRequiredField(t *testing.T) {
	err := TaskPatch{Title: strPtr("")}.Validate()
	if err == nil {
		t.Fatal("explicit empty title must fail validation")
	}
	if !IsDomainError(err, ErrCodeValidation) {
		t.Fatalf("error code = %v, want VALIDATION", err)
	}

	// An omitted title is not an empty title.
	if err := (TaskPatch{Description: strPtr("new")}).Validate(); err != nil {
		t.Fatalf("patch without title should validate, got %v", err)
	}
}
