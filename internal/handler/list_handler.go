package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/service"
)

type ListHandler struct {
	lists     *service.ListService
	pageLimit int
}

func NewListHandler(lists *service.ListService, pageLimit int) *ListHandler {
	return &ListHandler{lists: lists, pageLimit: pageLimit}
}

// CreateHandler handles POST /lists.
func (h *ListHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	list, err := h.lists.Create(ctx, auth.SubjectFrom(ctx), payload)
	if err != nil {
		return err
	}
	list.Self = selfLink(requestBaseURL(c), list.ID)
	return c.JSON(http.StatusCreated, list)
}

// ListHandler handles GET /lists. Authenticated callers see their own
// lists; anonymous callers see public lists. Auth-optional.
func (h *ListHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()
	offset := offsetParam(c)

	lists, total, err := h.lists.List(ctx, auth.SubjectFrom(ctx), offset)
	if err != nil {
		return err
	}
	base := requestBaseURL(c)
	for _, list := range lists {
		list.Self = selfLink(base, list.ID)
	}

	res := map[string]interface{}{"lists": lists, "total": total}
	addPaginationLinks(c, res, offset, h.pageLimit, total)
	return c.JSON(http.StatusOK, res)
}

// GetHandler handles GET /lists/:list_id. Public lists are readable here
// by anyone; this is the only public-read context. Auth-optional.
func (h *ListHandler) GetHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "list_id")
	if err != nil {
		return err
	}

	list, err := h.lists.Get(ctx, auth.SubjectFrom(ctx), id, true)
	if err != nil {
		return err
	}
	list.Self = requestBaseURL(c)
	return c.JSON(http.StatusOK, list)
}

// UpdateHandler handles PATCH and PUT /lists/:list_id.
func (h *ListHandler) UpdateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "list_id")
	if err != nil {
		return err
	}
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	replace := c.Request().Method == http.MethodPut
	list, err := h.lists.Update(ctx, auth.SubjectFrom(ctx), id, payload, replace)
	if err != nil {
		return err
	}
	list.Self = requestBaseURL(c)
	return c.JSON(http.StatusOK, list)
}

// DeleteHandler handles DELETE /lists/:list_id, cascading to member tasks.
func (h *ListHandler) DeleteHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "list_id")
	if err != nil {
		return err
	}
	if err := h.lists.Delete(ctx, auth.SubjectFrom(ctx), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignTaskHandler handles PATCH /lists/:list_id/tasks/:task_id.
func (h *ListHandler) AssignTaskHandler(c echo.Context) error {
	ctx := c.Request().Context()
	listID, err := pathID(c, "list_id")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id")
	if err != nil {
		return err
	}
	if err := h.lists.AssignTask(ctx, auth.SubjectFrom(ctx), listID, taskID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveTaskHandler handles DELETE /lists/:list_id/tasks/:task_id.
func (h *ListHandler) RemoveTaskHandler(c echo.Context) error {
	ctx := c.Request().Context()
	listID, err := pathID(c, "list_id")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id")
	if err != nil {
		return err
	}
	if err := h.lists.RemoveTask(ctx, auth.SubjectFrom(ctx), listID, taskID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
