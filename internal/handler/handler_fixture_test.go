package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/handler"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/store/memstore"
	"github.com/tasknest/tasknest/internal/validation"
)

const (
	alice = "auth0|alice"
	bob   = "auth0|bob"
)

// apiFixture assembles the full route surface over an in-memory store,
// with the same error rendering the server uses.
type apiFixture struct {
	e     *echo.Echo
	store *memstore.Store
}

func newAPIFixture(t *testing.T, pageLimit int) *apiFixture {
	t.Helper()
	store := memstore.New()
	validator := validation.New(config.DefaultAPIRules(), 24)
	rels := service.NewRelationships(store)
	tasks := service.NewTaskService(store, validator, rels, pageLimit)
	lists := service.NewListService(store, validator, rels, pageLimit)
	users := service.NewUserService(store)

	taskHandler := handler.NewTaskHandler(tasks, pageLimit)
	listHandler := handler.NewListHandler(lists, pageLimit)
	userHandler := handler.NewUserHandler(users)
	reportHandler := handler.NewReportHandler(store)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			_ = c.JSON(domainErr.Status, map[string]string{
				"code":        domainErr.Code,
				"description": domainErr.Description,
			})
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}

	taskGroup := e.Group("/tasks", handler.AcceptJSON)
	taskGroup.POST("", taskHandler.CreateHandler)
	taskGroup.GET("", taskHandler.ListHandler)
	taskGroup.GET("/:task_id", taskHandler.GetHandler)
	taskGroup.PATCH("/:task_id", taskHandler.UpdateHandler)
	taskGroup.PUT("/:task_id", taskHandler.UpdateHandler)
	taskGroup.DELETE("/:task_id", taskHandler.DeleteHandler)

	listGroup := e.Group("/lists", handler.AcceptJSON)
	listGroup.POST("", listHandler.CreateHandler)
	listGroup.GET("", listHandler.ListHandler)
	listGroup.GET("/:list_id", listHandler.GetHandler)
	listGroup.PATCH("/:list_id", listHandler.UpdateHandler)
	listGroup.PUT("/:list_id", listHandler.UpdateHandler)
	listGroup.DELETE("/:list_id", listHandler.DeleteHandler)
	listGroup.PATCH("/:list_id/tasks/:task_id", listHandler.AssignTaskHandler)
	listGroup.DELETE("/:list_id/tasks/:task_id", listHandler.RemoveTaskHandler)

	userGroup := e.Group("/users", handler.AcceptJSON)
	userGroup.GET("", userHandler.ListHandler)
	userGroup.GET("/:user_id", userHandler.GetHandler)

	e.GET("/reports/tasks", reportHandler.TasksReportHandler)

	return &apiFixture{e: e, store: store}
}

// do performs a request as the given subject; an empty subject means an
// anonymous call.
func (f *apiFixture) do(method, target, subject, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if subject != "" {
		identity := &auth.Identity{Subject: subject, Name: subject}
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// doWithAccept is do with an explicit Accept header, which may be empty.
func (f *apiFixture) doWithAccept(method, target, subject, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	if subject != "" {
		identity := &auth.Identity{Subject: subject, Name: subject}
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seedTask(t *testing.T, owner, name string) *domain.Task {
	t.Helper()
	task := &domain.Task{Owner: owner, Name: name, DueDate: "2026-12-24"}
	require.NoError(t, f.store.Put(context.Background(), task))
	return task
}

func (f *apiFixture) seedList(t *testing.T, owner, name string, public bool) *domain.TaskList {
	t.Helper()
	list := &domain.TaskList{Owner: owner, Name: name, Public: public}
	require.NoError(t, f.store.Put(context.Background(), list))
	return list
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
