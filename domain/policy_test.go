package domain

import "testing"

func TestCanActDelete(t *testing.T) {
	task := &Task{ID: "t1", CreatedBy: "creator", AssignedTo: "assignee"}

	tests := []struct {
		name  string
		actor *User
		want  bool
	}{
		{"creator may delete", &User{ID: "creator", Role: RoleUser}, true},
		{"admin may delete", &User{ID: "someone", Role: RoleAdmin}, true},
		{"assignee may not delete", &User{ID: "assignee", Role: RoleUser}, false},
		{"team lead is not special", &User{ID: "lead", Role: RoleTeamLead}, false},
		{"stranger may not delete", &User{ID: "other", Role: RoleUser}, false},
		{"nil actor denied", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAct(tt.actor, task, OpDelete); got != tt.want {
				t.Errorf("CanAct(delete) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanActRead(t *testing.T) {
	task := &Task{ID: "t1", CreatedBy: "creator", AssignedTo: "assignee"}

	tests := []struct {
		name  string
		actor *User
		want  bool
	}{
		{"creator reads", &User{ID: "creator", Role: RoleUser}, true},
		{"assignee reads", &User{ID: "assignee", Role: RoleUser}, true},
		{"admin reads", &User{ID: "x", Role: RoleAdmin}, true},
		{"stranger denied", &User{ID: "x", Role: RoleUser}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAct(tt.actor, task, OpRead); got != tt.want {
				t.Errorf("CanAct(read) = %v, want %v", got, tt.want)
			}
		})
	}

	// A task with no assignee must not treat the empty id as a match.
	unassigned := &Task{ID: "t2", CreatedBy: "creator"}
	if CanAct(&User{ID: "", Role: RoleUser}, unassigned, OpRead) {
		t.Error("empty actor id matched empty assignee")
	}
}

func TestCanActCreate(t *testing.T) {
	if !CanAct(&User{ID: "anyone", Role: RoleUser}, nil, OpCreate) {
		t.Error("any authenticated user may create")
	}
	if CanAct(nil, nil, OpCreate) {
		t.Error("unauthenticated create must be denied")
	}
}

func TestCanSetStatus(t *testing.T) {
	task := &Task{ID: "t1", CreatedBy: "creator", AssignedTo: "assignee", Status: StatusActive}

	tests := []struct {
		name   string
		actor  *User
		target Status
		want   bool
	}{
		{"assignee to in_progress", &User{ID: "assignee", Role: RoleUser}, StatusInProgress, true},
		{"assignee to completed", &User{ID: "assignee", Role: RoleUser}, StatusCompleted, false},
		{"assignee to active", &User{ID: "assignee", Role: RoleUser}, StatusActive, false},
		{"creator to completed", &User{ID: "creator", Role: RoleUser}, StatusCompleted, true},
		{"creator to in_progress", &User{ID: "creator", Role: RoleUser}, StatusInProgress, true},
		{"admin to anything", &User{ID: "x", Role: RoleAdmin}, StatusCompleted, true},
		{"stranger denied", &User{ID: "x", Role: RoleUser}, StatusInProgress, false},
		{"nil actor denied", nil, StatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSetStatus(tt.actor, task, tt.target); got != tt.want {
				t.Errorf("CanSetStatus(%s) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestCanSetStatusAssigneeWhoIsAlsoCreator(t *testing.T) {
	task := &Task{ID: "t1", CreatedBy: "both", AssignedTo: "both"}
	actor := &User{ID: "both", Role: RoleUser}
	if !CanSetStatus(actor, task, StatusCompleted) {
		t.Error("creator-assignee may complete their own task")
	}
}

func TestCanActTotality(t *testing.T) {
	// Every combination must produce a decision without panicking.
	actors := []*User{nil, {}, {ID: "u", Role: RoleUser}, {ID: "u", Role: "bogus"}}
	tasks := []*Task{nil, {}, {CreatedBy: "u"}, {AssignedTo: "u"}}
	ops := []Operation{OpRead, OpCreate, OpUpdateFields, OpDelete, OpSetStatus, Operation("unknown")}

	for _, a := range actors {
		for _, task := range tasks {
			for _, op := range ops {
				_ = CanAct(a, task, op)
			}
			for _, s := range []Status{StatusActive, StatusInProgress, StatusCompleted, Status("bogus")} {
				_ = CanSetStatus(a, task, s)
			}
		}
	}
}
