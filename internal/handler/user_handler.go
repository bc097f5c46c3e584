package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/service"
)

// UserHandler serves the unauthenticated user directory.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListHandler handles GET /users.
func (h *UserHandler) ListHandler(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	base := requestBaseURL(c)
	for _, user := range users {
		user.Self = selfLink(base, user.ID)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(users),
		"users": users,
	})
}

// GetHandler handles GET /users/:user_id.
func (h *UserHandler) GetHandler(c echo.Context) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	user.Self = requestBaseURL(c)
	return c.JSON(http.StatusOK, user)
}
