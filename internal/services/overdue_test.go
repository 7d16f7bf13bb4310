package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
	"github.com/taskforge/backend/usecase"
)

type capturedAudit struct {
	mu        sync.Mutex
	mutations []usecase.TaskMutation
}

func (c *capturedAudit) RecordTaskMutation(ctx context.Context, m usecase.TaskMutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutations = append(c.mutations, m)
	return nil
}

func seedTask(t *testing.T, tasks *memory.TaskRepository, creator string, status domain.Status, endDate *time.Time) string {
	t.Helper()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       "t",
		Description: "d",
		Status:      status,
		CreatedBy:   creator,
		EndDate:     endDate,
		CreatedAt:   time.Now(),
	}
	if _, err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task.ID
}

func TestSweepCompletesOnlyOverdueTasks(t *testing.T) {
	users := memory.NewUserRepository()
	owner := &domain.User{ID: uuid.NewString(), Name: "owner", Email: "o@x.com", Role: domain.RoleUser}
	if err := users.Create(context.Background(), owner); err != nil {
		t.Fatal(err)
	}
	tasks := memory.NewTaskRepository(users)
	trail := &capturedAudit{}

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdueID := seedTask(t, tasks, owner.ID, domain.StatusActive, &past)
	inProgressID := seedTask(t, tasks, owner.ID, domain.StatusInProgress, &past)
	futureID := seedTask(t, tasks, owner.ID, domain.StatusActive, &future)
	noDeadlineID := seedTask(t, tasks, owner.ID, domain.StatusActive, nil)
	doneID := seedTask(t, tasks, owner.ID, domain.StatusCompleted, &past)

	sweeper := NewOverdueSweeper(tasks, trail, "", nil)
	sweeper.now = func() time.Time { return now }

	completed, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if completed != 2 {
		t.Fatalf("completed = %d, want 2", completed)
	}

	wantStatus := map[string]domain.Status{
		overdueID:    domain.StatusCompleted,
		inProgressID: domain.StatusCompleted,
		futureID:     domain.StatusActive,
		noDeadlineID: domain.StatusActive,
		doneID:       domain.StatusCompleted,
	}
	for id, want := range wantStatus {
		got, err := tasks.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID(%s): %v", id, err)
		}
		if got.Status != want {
			t.Errorf("task %s status = %s, want %s", id, got.Status, want)
		}
	}

	trail.mu.Lock()
	defer trail.mu.Unlock()
	if len(trail.mutations) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(trail.mutations))
	}
	swept := map[string]domain.Status{}
	for _, m := range trail.mutations {
		if m.ActorID != SweepActorID {
			t.Errorf("actor = %s, want %s", m.ActorID, SweepActorID)
		}
		if m.Operation != "overdue_sweep" || m.ToStatus != domain.StatusCompleted {
			t.Errorf("unexpected mutation: %+v", m)
		}
		swept[m.TaskID] = m.FromStatus
	}
	if swept[overdueID] != domain.StatusActive || swept[inProgressID] != domain.StatusInProgress {
		t.Errorf("prior statuses not captured: %+v", swept)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	users := memory.NewUserRepository()
	owner := &domain.User{ID: uuid.NewString(), Name: "owner", Email: "o@x.com", Role: domain.RoleUser}
	if err := users.Create(context.Background(), owner); err != nil {
		t.Fatal(err)
	}
	tasks := memory.NewTaskRepository(users)

	past := time.Now().Add(-time.Hour)
	seedTask(t, tasks, owner.ID, domain.StatusActive, &past)

	sweeper := NewOverdueSweeper(tasks, nil, "", nil)

	first, err := sweeper.Sweep(context.Background())
	if err != nil || first != 1 {
		t.Fatalf("first sweep = (%d, %v), want (1, nil)", first, err)
	}
	second, err := sweeper.Sweep(context.Background())
	if err != nil || second != 0 {
		t.Fatalf("second sweep = (%d, %v), want (0, nil)", second, err)
	}
}
