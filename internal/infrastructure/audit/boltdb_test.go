package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, op := range []string{OperationCreate, OperationUpdate, OperationSetStatus} {
		err := store.Append(Entry{
			TaskID:    "t1",
			ActorID:   "u1",
			Operation: op,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append(%s): %v", op, err)
		}
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Operation != OperationSetStatus {
		t.Errorf("newest first: got %s", entries[0].Operation)
	}

	size, err := store.Size()
	if err != nil || size != 3 {
		t.Errorf("Size = %d, %v; want 3, nil", size, err)
	}
}

func TestByTask(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	_ = store.Append(Entry{TaskID: "a", ActorID: "u1", Operation: OperationCreate, Timestamp: now})
	_ = store.Append(Entry{TaskID: "b", ActorID: "u1", Operation: OperationCreate, Timestamp: now.Add(time.Second)})
	_ = store.Append(Entry{
		TaskID: "a", ActorID: "system", Operation: OperationSweep,
		FromStatus: domain.StatusActive, ToStatus: domain.StatusCompleted,
		Timestamp: now.Add(2 * time.Second),
	})

	entries, err := store.ByTask("a", 10)
	if err != nil {
		t.Fatalf("ByTask: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries for task a, want 2", len(entries))
	}
	if entries[0].Operation != OperationSweep || entries[0].ToStatus != domain.StatusCompleted {
		t.Errorf("unexpected newest entry: %+v", entries[0])
	}
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)
	old := time.Now().Add(-48 * time.Hour)

	_ = store.Append(Entry{TaskID: "t1", ActorID: "u1", Operation: OperationCreate, Timestamp: old})
	_ = store.Append(Entry{TaskID: "t1", ActorID: "u1", Operation: OperationUpdate, Timestamp: time.Now()})

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	size, _ := store.Size()
	if size != 1 {
		t.Errorf("size after cleanup = %d, want 1", size)
	}
}
