package taskstate

import (
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
)

func makeTask(id string, status domain.Status, createdAt time.Time) domain.ResolvedTask {
	return domain.ResolvedTask{
		Task: domain.Task{
			ID:          id,
			Title:       "Task " + id,
			Description: "desc",
			Status:      status,
			CreatedBy:   "u1",
			CreatedAt:   createdAt,
		},
		Creator: domain.UserRef{ID: "u1", Name: "User One", Email: "u1@x.com"},
	}
}

func TestVisibleFilterSemantics(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	base := now.Add(-time.Hour)

	active := makeTask("a", domain.StatusActive, base)
	inProgress := makeTask("b", domain.StatusInProgress, base.Add(time.Minute))
	completed := makeTask("c", domain.StatusCompleted, base.Add(2*time.Minute))

	store := New()
	store.Replace([]domain.ResolvedTask{active, inProgress, completed})

	store.SetFilter(FilterActive)
	visible := store.Visible(now)
	if len(visible) != 2 {
		t.Fatalf("active filter: got %d tasks, want 2", len(visible))
	}
	for _, task := range visible {
		if task.IsCompleted() {
			t.Errorf("active filter leaked completed task %s", task.ID)
		}
	}

	store.SetFilter(FilterCompleted)
	visible = store.Visible(now)
	if len(visible) != 1 || visible[0].ID != "c" {
		t.Fatalf("completed filter: got %v", visible)
	}

	store.SetFilter(FilterAll)
	if got := len(store.Visible(now)); got != 3 {
		t.Fatalf("all filter: got %d tasks, want 3", got)
	}
}

func TestOverdueShowsCompletedWithoutMutation(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	overdue := makeTask("o", domain.StatusActive, now.Add(-48*time.Hour))
	overdue.EndDate = &past

	store := New()
	store.Replace([]domain.ResolvedTask{overdue})

	store.SetFilter(FilterCompleted)
	if got := store.Visible(now); len(got) != 1 || got[0].ID != "o" {
		t.Fatalf("overdue task must display under completed, got %v", got)
	}

	store.SetFilter(FilterActive)
	if got := store.Visible(now); len(got) != 0 {
		t.Fatalf("overdue task must not display under active, got %v", got)
	}

	// The derivation is display-only; stored status is untouched.
	if got := store.List(); got[0].Status != domain.StatusActive {
		t.Errorf("stored status = %s, want active", got[0].Status)
	}
}

func TestOptimisticReconcile(t *testing.T) {
	now := time.Now()
	store := New()
	store.Replace([]domain.ResolvedTask{makeTask("t1", domain.StatusActive, now)})

	// Optimistic local create with a temporary id.
	local := makeTask("tmp-1", domain.StatusActive, now.Add(time.Second))
	mid := store.ApplyUpsert(local)
	if store.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", store.Pending())
	}

	// Server assigns the real id.
	server := makeTask("srv-9", domain.StatusActive, now.Add(time.Second))
	store.Reconcile(mid, &server)

	if store.Pending() != 0 {
		t.Errorf("pending = %d after reconcile, want 0", store.Pending())
	}
	tasks := store.List()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.ID == "tmp-1" {
			t.Error("temporary optimistic id must be replaced by the server id")
		}
	}
}

func TestOptimisticRevert(t *testing.T) {
	now := time.Now()
	original := makeTask("t1", domain.StatusActive, now)

	store := New()
	store.Replace([]domain.ResolvedTask{original})

	changed := original
	changed.Title = "renamed locally"
	mid := store.ApplyUpsert(changed)

	if store.List()[0].Title != "renamed locally" {
		t.Fatal("optimistic update must be visible immediately")
	}

	// Server rejected the mutation.
	store.Revert(mid)

	got := store.List()
	if len(got) != 1 || got[0].Title != original.Title {
		t.Fatalf("revert must restore the pre-optimistic record, got %v", got)
	}
}

func TestRevertOfOptimisticDelete(t *testing.T) {
	now := time.Now()
	original := makeTask("t1", domain.StatusActive, now)
	store := New()
	store.Replace([]domain.ResolvedTask{original})

	mid := store.ApplyRemove("t1")
	if len(store.List()) != 0 {
		t.Fatal("optimistic delete must hide the task")
	}
	store.Revert(mid)
	if len(store.List()) != 1 {
		t.Fatal("revert must restore the deleted task")
	}
}

func TestVisibleOrdering(t *testing.T) {
	now := time.Now()
	store := New()
	store.Replace([]domain.ResolvedTask{
		makeTask("old", domain.StatusActive, now.Add(-2*time.Hour)),
		makeTask("new", domain.StatusActive, now),
		makeTask("mid", domain.StatusActive, now.Add(-time.Hour)),
	})
	got := store.Visible(now)
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Errorf("wrong order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}
