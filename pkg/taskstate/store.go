// Package taskstate holds the client-visible task list: the last-known
// server state, a display filter, and optimistic local mutations that are
// reconciled against server responses or reverted on rejection.
//
// It is the single authoritative view-state container; rendering layers read
// from it and never mutate tasks directly.
package taskstate

import (
	"sort"
	"sync"
	"time"

	"github.com/taskforge/backend/domain"
)

// Filter selects which tasks the view shows. FilterActive covers every
// non-completed status (active and in_progress alike).
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// TaskStateStore is the capability surface the UI programs against.
type TaskStateStore interface {
	// Replace installs an authoritative server snapshot, dropping any pending
	// optimistic state.
	Replace(tasks []domain.ResolvedTask)
	List() []domain.ResolvedTask
	// Visible returns the tasks matching the current filter, newest first.
	// Overdue tasks count as completed for filtering only; their stored
	// status is untouched.
	Visible(now time.Time) []domain.ResolvedTask
	SetFilter(f Filter)
	CurrentFilter() Filter

	ApplyUpsert(task domain.ResolvedTask) MutationID
	ApplyRemove(taskID string) MutationID
	// Reconcile replaces the optimistic result with the server's resolved
	// record (nil for a confirmed delete) and forgets the pending entry.
	Reconcile(id MutationID, server *domain.ResolvedTask)
	// Revert restores the state captured before the optimistic mutation.
	Revert(id MutationID)
	Pending() int
}

// MutationID identifies a pending optimistic mutation.
type MutationID uint64

type pendingMutation struct {
	taskID  string
	before  *domain.ResolvedTask // nil when the task did not exist
	existed bool
}

// Store is the only implementation of TaskStateStore. It is safe for use
// from a single UI event loop or multiple goroutines alike.
type Store struct {
	mu      sync.RWMutex
	tasks   map[string]domain.ResolvedTask
	filter  Filter
	nextID  MutationID
	pending map[MutationID]pendingMutation
}

func New() *Store {
	return &Store{
		tasks:   make(map[string]domain.ResolvedTask),
		filter:  FilterAll,
		pending: make(map[MutationID]pendingMutation),
	}
}

func (s *Store) Replace(tasks []domain.ResolvedTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]domain.ResolvedTask, len(tasks))
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	s.pending = make(map[MutationID]pendingMutation)
}

func (s *Store) List() []domain.ResolvedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(domain.ResolvedTask) bool { return true })
}

func (s *Store) Visible(now time.Time) []domain.ResolvedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.filter {
	case FilterActive:
		return s.snapshot(func(t domain.ResolvedTask) bool {
			return !t.IsCompleted() && !t.Overdue(now)
		})
	case FilterCompleted:
		// Display-only derivation: a past-due task shows as completed here
		// without any status write.
		return s.snapshot(func(t domain.ResolvedTask) bool {
			return t.IsCompleted() || t.Overdue(now)
		})
	default:
		return s.snapshot(func(domain.ResolvedTask) bool { return true })
	}
}

func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		s.filter = f
	}
}

func (s *Store) CurrentFilter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) ApplyUpsert(task domain.ResolvedTask) MutationID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.track(task.ID)
	s.tasks[task.ID] = task
	return id
}

func (s *Store) ApplyRemove(taskID string) MutationID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.track(taskID)
	delete(s.tasks, taskID)
	return id
}

func (s *Store) Reconcile(id MutationID, server *domain.ResolvedTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	if server == nil {
		delete(s.tasks, p.taskID)
		return
	}
	// The server record may carry a different id than the optimistic one
	// (create assigns ids server-side).
	if server.ID != p.taskID {
		delete(s.tasks, p.taskID)
	}
	s.tasks[server.ID] = *server
}

func (s *Store) Revert(id MutationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	if p.existed {
		s.tasks[p.taskID] = *p.before
	} else {
		delete(s.tasks, p.taskID)
	}
}

func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

func (s *Store) track(taskID string) MutationID {
	s.nextID++
	p := pendingMutation{taskID: taskID}
	if before, ok := s.tasks[taskID]; ok {
		b := before
		p.before = &b
		p.existed = true
	}
	s.pending[s.nextID] = p
	return s.nextID
}

func (s *Store) snapshot(keep func(domain.ResolvedTask) bool) []domain.ResolvedTask {
	out := make([]domain.ResolvedTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
