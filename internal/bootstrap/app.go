package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/handler"
	"github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/store/datastore"
	"github.com/tasknest/tasknest/internal/store/memstore"
	"github.com/tasknest/tasknest/internal/store/postgres"
	"github.com/tasknest/tasknest/internal/validation"
)

type App struct {
	Echo  *echo.Echo
	Store domain.Store
}

func NewApp() *App {
	return &App{Echo: echo.New()}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := &config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.InfoLog(ctx, "environment variables loaded successfully")

	rules, err := config.LoadAPIRules(cfg.API_RULES_PATH)
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize entity store: %w", err)
	}
	a.Store = store
	logger.InfoLog(ctx, fmt.Sprintf("entity store backend: %s", cfg.STORE_BACKEND))

	verifier, err := auth.NewVerifier(ctx, cfg.AUTH0_DOMAIN, cfg.AUTH0_CLIENT_ID, store)
	if err != nil {
		return fmt.Errorf("failed to initialize identity verifier: %w", err)
	}
	loginFlow := auth.NewLoginFlow(cfg.AUTH0_DOMAIN, cfg.AUTH0_CLIENT_ID, cfg.AUTH0_CLIENT_SECRET, cfg.APP_BASE_URL)

	// Dependencies
	validator := validation.New(rules, cfg.MAX_LIST_NAME_LEN)
	rels := service.NewRelationships(store)
	taskSvc := service.NewTaskService(store, validator, rels, cfg.PAGE_LIMIT)
	listSvc := service.NewListService(store, validator, rels, cfg.PAGE_LIMIT)
	userSvc := service.NewUserService(store)

	taskHandler := handler.NewTaskHandler(taskSvc, cfg.PAGE_LIMIT)
	listHandler := handler.NewListHandler(listSvc, cfg.PAGE_LIMIT)
	userHandler := handler.NewUserHandler(userSvc)
	authHandler := handler.NewAuthHandler(loginFlow, userSvc, cfg.APP_BASE_URL)
	reportHandler := handler.NewReportHandler(store)

	a.RegisterMiddlewares()
	a.RegisterRoutes(taskHandler, listHandler, userHandler, authHandler, reportHandler,
		auth.Middleware(verifier, rules))

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HTTPErrorHandler = errorHandler
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(requestContext)
	a.Echo.Use(middleware.Logger())
}

func (a *App) RegisterRoutes(
	taskHandler *handler.TaskHandler,
	listHandler *handler.ListHandler,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	reportHandler *handler.ReportHandler,
	requireAuth echo.MiddlewareFunc,
) {
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	tasks := a.Echo.Group("/tasks", handler.AcceptJSON, requireAuth)
	tasks.POST("", taskHandler.CreateHandler)
	tasks.GET("", taskHandler.ListHandler)
	tasks.GET("/:task_id", taskHandler.GetHandler)
	tasks.PATCH("/:task_id", taskHandler.UpdateHandler)
	tasks.PUT("/:task_id", taskHandler.UpdateHandler)
	tasks.DELETE("/:task_id", taskHandler.DeleteHandler)

	lists := a.Echo.Group("/lists", handler.AcceptJSON, requireAuth)
	lists.POST("", listHandler.CreateHandler)
	lists.GET("", listHandler.ListHandler)
	lists.GET("/:list_id", listHandler.GetHandler)
	lists.PATCH("/:list_id", listHandler.UpdateHandler)
	lists.PUT("/:list_id", listHandler.UpdateHandler)
	lists.DELETE("/:list_id", listHandler.DeleteHandler)
	lists.PATCH("/:list_id/tasks/:task_id", listHandler.AssignTaskHandler)
	lists.DELETE("/:list_id/tasks/:task_id", listHandler.RemoveTaskHandler)

	users := a.Echo.Group("/users", handler.AcceptJSON)
	users.GET("", userHandler.ListHandler)
	users.GET("/:user_id", userHandler.GetHandler)

	reports := a.Echo.Group("/reports", requireAuth)
	reports.GET("/tasks", reportHandler.TasksReportHandler)

	a.Echo.GET("/login", authHandler.LoginHandler)
	a.Echo.GET("/callback", authHandler.CallbackHandler)
	a.Echo.GET("/logout", authHandler.LogoutHandler)
}

func (a *App) Run() error {
	defer a.Store.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

func newStore(ctx context.Context, cfg *config.EnvConfig) (domain.Store, error) {
	switch cfg.STORE_BACKEND {
	case "datastore":
		return datastore.New(ctx, cfg.GCP_PROJECT_ID)
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			Host:     cfg.DB_HOST,
			Port:     cfg.DB_PORT,
			User:     cfg.DB_USER,
			Password: cfg.DB_PASSWORD,
			DBName:   cfg.DB_NAME,
			SSLMode:  cfg.DB_SSL_MODE,
		})
	case "memory":
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.STORE_BACKEND)
}

// requestContext copies the request id assigned by the RequestID
// middleware onto the request context so log lines can carry it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

// errorHandler renders every error as the API's {code, description} JSON
// shape with the taxonomy's status.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *domain.Error
	if errors.As(err, &apiErr) {
		if jsonErr := c.JSON(apiErr.Status, apiErr); jsonErr != nil {
			logger.ErrorLog(c.Request().Context(), fmt.Sprintf("failed to write error response: %v", jsonErr))
		}
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		body := map[string]interface{}{
			"code":        statusErrorCode(httpErr.Code),
			"description": fmt.Sprintf("%v", httpErr.Message),
		}
		if jsonErr := c.JSON(httpErr.Code, body); jsonErr != nil {
			logger.ErrorLog(c.Request().Context(), fmt.Sprintf("failed to write error response: %v", jsonErr))
		}
		return
	}

	logger.ErrorLog(c.Request().Context(), fmt.Sprintf("unhandled error: %v", err))
	_ = c.JSON(http.StatusInternalServerError, map[string]string{
		"code":        "internal_error",
		"description": "An unexpected error occurred.",
	})
}

func statusErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "page_not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	default:
		return "request_error"
	}
}
