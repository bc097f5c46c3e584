package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/service"
)

const stateCookie = "oauth_state"

// AuthHandler serves the browser-facing login pages. Its only effect on
// the core is registering the User entity on a first successful callback.
type AuthHandler struct {
	flow    *auth.LoginFlow
	users   *service.UserService
	baseURL string
}

func NewAuthHandler(flow *auth.LoginFlow, users *service.UserService, baseURL string) *AuthHandler {
	return &AuthHandler{flow: flow, users: users, baseURL: baseURL}
}

// LoginHandler handles GET /login: sets a state cookie and redirects to
// the provider.
func (h *AuthHandler) LoginHandler(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(http.StatusFound, h.flow.AuthCodeURL(state))
}

// CallbackHandler handles GET /callback: verifies the state, exchanges
// the code, fetches the user's subject id and name, and registers the
// user (idempotently).
func (h *AuthHandler) CallbackHandler(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "state mismatch")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	token, err := h.flow.Exchange(ctx, code)
	if err != nil {
		logger.ErrorLog(ctx, fmt.Sprintf("code exchange failed: %v", err))
		return echo.NewHTTPError(http.StatusBadGateway, "code exchange failed")
	}

	subject, name, err := h.flow.Userinfo(ctx, token)
	if err != nil {
		logger.ErrorLog(ctx, fmt.Sprintf("userinfo fetch failed: %v", err))
		return echo.NewHTTPError(http.StatusBadGateway, "userinfo fetch failed")
	}

	if err := h.users.Register(ctx, subject, name); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// LogoutHandler handles GET /logout: redirects to the provider's logout
// page, returning to the app afterwards.
func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	return c.Redirect(http.StatusFound, h.flow.LogoutURL(h.baseURL))
}
