package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

const resolvedColumns = `
	t.id, t.title, t.description, t.status, t.created_by, t.assigned_to,
	t.start_date, t.end_date, t.created_at, t.updated_at,
	c.name, c.email, c.avatar,
	a.name, a.email, a.avatar
`

const resolvedFrom = `
	FROM tasks t
	JOIN users c ON c.id = t.created_by
	LEFT JOIN users a ON a.id = t.assigned_to
`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.ResolvedTask, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resolvedColumns+resolvedFrom+` WHERE t.id = $1`, id)
	return scanResolvedTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.ResolvedTask, error) {
	const query = `
	SELECT ` + resolvedColumns + resolvedFrom + `
	WHERE ($1 = '' OR t.created_by = $1 OR t.assigned_to = $1)
	  AND ($2 = '' OR t.status = $2)
	ORDER BY t.created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.InvolvedUserID, string(filter.Status), limitArg(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResolvedTasks(rows)
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.ResolvedTask, error) {
	const query = `
	SELECT ` + resolvedColumns + resolvedFrom + `
	WHERE t.status <> 'completed' AND t.end_date IS NOT NULL AND t.end_date < $1
	ORDER BY t.end_date ASC
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResolvedTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.ResolvedTask, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, status, created_by, assigned_to, start_date, end_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedBy,
		nullString(task.AssignedTo),
		task.StartDate,
		task.EndDate,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, task.ID)
}

// Update locks the row, applies the patch in memory, writes the full row back
// and returns the resolved record from inside the same transaction, so the
// response can never show another writer's half-applied state.
func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.ResolvedTask, error) {
	return r.mutate(ctx, id, func(task *domain.Task) {
		patch.Apply(task)
	})
}

func (r *taskRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.ResolvedTask, error) {
	return r.mutate(ctx, id, func(task *domain.Task) {
		task.Status = status
	})
}

func (r *taskRepository) mutate(ctx context.Context, id string, apply func(*domain.Task)) (*domain.ResolvedTask, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const lockQuery = `
	SELECT id, title, description, status, created_by, assigned_to, start_date, end_date, created_at, updated_at
	FROM tasks WHERE id = $1 FOR UPDATE
	`
	var (
		task       domain.Task
		status     string
		assignedTo *string
	)
	if err := tx.QueryRow(ctx, lockQuery, id).Scan(
		&task.ID, &task.Title, &task.Description, &status, &task.CreatedBy,
		&assignedTo, &task.StartDate, &task.EndDate, &task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task.Status = domain.Status(status)
	if assignedTo != nil {
		task.AssignedTo = *assignedTo
	}

	apply(&task)

	const writeQuery = `
	UPDATE tasks
	SET title = $2, description = $3, status = $4, assigned_to = $5,
		start_date = $6, end_date = $7, updated_at = NOW()
	WHERE id = $1
	`
	if _, err := tx.Exec(ctx, writeQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		nullString(task.AssignedTo),
		task.StartDate,
		task.EndDate,
	); err != nil {
		return nil, err
	}

	resolved, err := scanResolvedTask(tx.QueryRow(ctx, `SELECT `+resolvedColumns+resolvedFrom+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanResolvedTask(row pgx.Row) (*domain.ResolvedTask, error) {
	var (
		rt             domain.ResolvedTask
		status         string
		assignedTo     *string
		assigneeName   *string
		assigneeEmail  *string
		assigneeAvatar *string
	)
	if err := row.Scan(
		&rt.ID, &rt.Title, &rt.Description, &status, &rt.CreatedBy, &assignedTo,
		&rt.StartDate, &rt.EndDate, &rt.CreatedAt, &rt.UpdatedAt,
		&rt.Creator.Name, &rt.Creator.Email, &rt.Creator.Avatar,
		&assigneeName, &assigneeEmail, &assigneeAvatar,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	rt.Status = domain.Status(status)
	rt.Creator.ID = rt.CreatedBy
	if assignedTo != nil {
		rt.AssignedTo = *assignedTo
		assignee := domain.UserRef{ID: *assignedTo}
		if assigneeName != nil {
			assignee.Name = *assigneeName
		}
		if assigneeEmail != nil {
			assignee.Email = *assigneeEmail
		}
		if assigneeAvatar != nil {
			assignee.Avatar = *assigneeAvatar
		}
		rt.Assignee = &assignee
	}
	return &rt, nil
}

func collectResolvedTasks(rows pgx.Rows) ([]domain.ResolvedTask, error) {
	var tasks []domain.ResolvedTask
	for rows.Next() {
		task, err := scanResolvedTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// limitArg maps a zero filter limit to SQL NULL, which Postgres treats as
// LIMIT ALL. Listing must return every visible task unless a caller asked
// for a page.
func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}
