package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// TaskRepository is an in-memory implementation of repository.TaskRepository.
// A single mutex serializes writes, which trivially satisfies the per-task
// atomicity contract.
type TaskRepository struct {
	mu    sync.RWMutex
	users *UserRepository
	tasks map[string]domain.Task
}

func NewTaskRepository(users *UserRepository) *TaskRepository {
	return &TaskRepository{
		users: users,
		tasks: make(map[string]domain.Task),
	}
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.ResolvedTask, error) {
	r.mu.RLock()
	task, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return r.resolve(task), nil
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.ResolvedTask, error) {
	r.mu.RLock()
	matched := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if filter.InvolvedUserID != "" &&
			task.CreatedBy != filter.InvolvedUserID && task.AssignedTo != filter.InvolvedUserID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		matched = append(matched, task)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	resolved := make([]domain.ResolvedTask, 0, len(matched))
	for _, task := range matched {
		resolved = append(resolved, *r.resolve(task))
	}
	return resolved, nil
}

func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.ResolvedTask, error) {
	r.mu.RLock()
	var matched []domain.Task
	for _, task := range r.tasks {
		t := task
		if t.Overdue(now) {
			matched = append(matched, t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].EndDate.Before(*matched[j].EndDate)
	})
	resolved := make([]domain.ResolvedTask, 0, len(matched))
	for _, task := range matched {
		resolved = append(resolved, *r.resolve(task))
	}
	return resolved, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.ResolvedTask, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	r.tasks[task.ID] = *task
	r.mu.Unlock()
	return r.resolve(*task), nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.ResolvedTask, error) {
	return r.mutate(id, func(task *domain.Task) { patch.Apply(task) })
}

func (r *TaskRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.ResolvedTask, error) {
	return r.mutate(id, func(task *domain.Task) { task.Status = status })
}

func (r *TaskRepository) mutate(id string, apply func(*domain.Task)) (*domain.ResolvedTask, error) {
	r.mu.Lock()
	task, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}
	apply(&task)
	task.UpdatedAt = time.Now()
	r.tasks[id] = task
	r.mu.Unlock()
	return r.resolve(task), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) resolve(task domain.Task) *domain.ResolvedTask {
	resolved := domain.ResolvedTask{
		Task:    task,
		Creator: r.users.ref(task.CreatedBy),
	}
	if task.AssignedTo != "" {
		assignee := r.users.ref(task.AssignedTo)
		resolved.Assignee = &assignee
	}
	return &resolved
}
