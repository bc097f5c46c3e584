package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service"
)

type TaskHandler struct {
	tasks     *service.TaskService
	pageLimit int
}

func NewTaskHandler(tasks *service.TaskService, pageLimit int) *TaskHandler {
	return &TaskHandler{tasks: tasks, pageLimit: pageLimit}
}

// CreateHandler handles POST /tasks.
func (h *TaskHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Create(ctx, auth.SubjectFrom(ctx), payload)
	if err != nil {
		return err
	}
	task.Self = selfLink(requestBaseURL(c), task.ID)
	return c.JSON(http.StatusCreated, task)
}

// ListHandler handles GET /tasks with offset pagination.
func (h *TaskHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()
	offset := offsetParam(c)

	tasks, total, err := h.tasks.List(ctx, auth.SubjectFrom(ctx), offset)
	if err != nil {
		return err
	}
	base := requestBaseURL(c)
	for _, task := range tasks {
		task.Self = selfLink(base, task.ID)
	}

	res := map[string]interface{}{"tasks": tasks, "total": total}
	addPaginationLinks(c, res, offset, h.pageLimit, total)
	return c.JSON(http.StatusOK, res)
}

// GetHandler handles GET /tasks/:task_id.
func (h *TaskHandler) GetHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "task_id")
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(ctx, auth.SubjectFrom(ctx), id)
	if err != nil {
		return err
	}
	task.Self = requestBaseURL(c)
	return c.JSON(http.StatusOK, task)
}

// UpdateHandler handles PATCH and PUT /tasks/:task_id. PUT is a full
// replacement and requires every property including completed.
func (h *TaskHandler) UpdateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "task_id")
	if err != nil {
		return err
	}
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	replace := c.Request().Method == http.MethodPut
	task, err := h.tasks.Update(ctx, auth.SubjectFrom(ctx), id, payload, replace)
	if err != nil {
		return err
	}
	task.Self = requestBaseURL(c)
	return c.JSON(http.StatusOK, task)
}

// DeleteHandler handles DELETE /tasks/:task_id.
func (h *TaskHandler) DeleteHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "task_id")
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(ctx, auth.SubjectFrom(ctx), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// pathID parses an entity id path parameter. Non-numeric ids cannot name
// any entity, so they answer like a missing one.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
