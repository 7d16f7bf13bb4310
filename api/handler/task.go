package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	taskUC "github.com/taskforge/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks visible to the caller
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Fetch a single task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondFail(ctx, http.StatusBadRequest, string(domain.ErrCodeValidation), "invalid payload")
		return
	}

	input := taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	var badDates map[string]string
	input.StartDate, badDates = parseDate(req.StartDate, "start_date", badDates)
	input.EndDate, badDates = parseDate(req.EndDate, "end_date", badDates)
	if len(badDates) > 0 {
		h.respondError(ctx, domain.NewValidationError(badDates))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, actor, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task fields
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondFail(ctx, http.StatusBadRequest, string(domain.ErrCodeValidation), "invalid payload")
		return
	}

	patch, err := buildPatch(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, actor, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Transition task status
// @Tags tasks
// @Router /api/v1/tasks/{id}/status [put]
func (h *TaskHandler) UpdateTaskStatus(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	var req transport.TaskStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondFail(ctx, http.StatusBadRequest, string(domain.ErrCodeValidation), "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetStatus(stdCtx, actor, id, domain.Status(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary List users for task assignment
// @Tags tasks
// @Router /api/v1/users [get]
func (h *TaskHandler) GetUsers(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.ListUsers(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondFail(ctx, http.StatusBadRequest, string(domain.ErrCodeValidation), "missing task id")
	}
	return id
}

// buildPatch converts the wire representation into a domain patch, keeping
// the omitted/present distinction intact. Empty date or assignee strings
// clear the field.
func buildPatch(req transport.TaskUpdateRequest) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			patch.ClearAssignee = true
		} else {
			patch.AssignedTo = req.AssignedTo
		}
	}

	var badDates map[string]string
	if req.StartDate != nil {
		if *req.StartDate == "" {
			patch.ClearStartDate = true
		} else {
			patch.StartDate, badDates = parseDate(*req.StartDate, "start_date", badDates)
		}
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			patch.ClearEndDate = true
		} else {
			patch.EndDate, badDates = parseDate(*req.EndDate, "end_date", badDates)
		}
	}
	if len(badDates) > 0 {
		return domain.TaskPatch{}, domain.NewValidationError(badDates)
	}
	return patch, nil
}

func parseDate(value, field string, fields map[string]string) (*time.Time, map[string]string) {
	if value == "" {
		return nil, fields
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		if fields == nil {
			fields = map[string]string{}
		}
		fields[field] = "must be an RFC 3339 timestamp"
		return nil, fields
	}
	return &parsed, fields
}
