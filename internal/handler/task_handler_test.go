package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCreateHandler(t *testing.T) {
	f := newAPIFixture(t, 5)

	rec := f.do(http.MethodPost, "/tasks", alice, `{"name":"Pay rent","due_date":"2026-10-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Pay rent", body["name"])
	assert.Equal(t, "2026-10-01", body["due_date"])
	assert.Equal(t, alice, body["owner"])
	assert.Equal(t, false, body["completed"])
	assert.Nil(t, body["task_list"])

	id := int64(body["id"].(float64))
	assert.Equal(t, fmt.Sprintf("http://example.com/tasks/%d", id), body["self"])
}

func TestTaskCreateHandlerRejectsBadPayloads(t *testing.T) {
	f := newAPIFixture(t, 5)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"missing due_date", `{"name":"Pay rent"}`, "required_property_missing"},
		{"bad due_date", `{"name":"Pay rent","due_date":"tomorrow"}`, "invalid_due_date"},
		{"not json", `{"name":`, "invalid_request_body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/tasks", alice, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, decodeBody(t, rec)["code"])
		})
	}
}

func TestTaskGetHandler(t *testing.T) {
	f := newAPIFixture(t, 5)
	task := f.seedTask(t, alice, "Pay rent")

	t.Run("owner reads it", func(t *testing.T) {
		rec := f.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), alice, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Pay rent", body["name"])
		assert.Equal(t, fmt.Sprintf("http://example.com/tasks/%d", task.ID), body["self"])
	})

	t.Run("other caller is rejected", func(t *testing.T) {
		rec := f.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), bob, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeBody(t, rec)["code"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/tasks/424242", alice, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "invalid_id", decodeBody(t, rec)["code"])
	})

	t.Run("non-numeric id answers like a missing one", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/tasks/abc", alice, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskUpdateHandler(t *testing.T) {
	f := newAPIFixture(t, 5)
	task := f.seedTask(t, alice, "Pay rent")
	target := fmt.Sprintf("/tasks/%d", task.ID)

	t.Run("patch updates only the given properties", func(t *testing.T) {
		rec := f.do(http.MethodPatch, target, alice, `{"name":"Pay October rent"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Pay October rent", body["name"])
		assert.Equal(t, "2026-12-24", body["due_date"])
	})

	t.Run("put demands the full property set", func(t *testing.T) {
		rec := f.do(http.MethodPut, target, alice, `{"name":"Pay rent","due_date":"2026-10-01"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "required_property_missing", decodeBody(t, rec)["code"])
	})

	t.Run("put replaces everything including completed", func(t *testing.T) {
		rec := f.do(http.MethodPut, target, alice,
			`{"name":"Pay rent","due_date":"2026-10-01","completed":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["completed"])
	})
}

func TestTaskDeleteHandler(t *testing.T) {
	f := newAPIFixture(t, 5)
	task := f.seedTask(t, alice, "Pay rent")
	target := fmt.Sprintf("/tasks/%d", task.ID)

	rec := f.do(http.MethodDelete, target, alice, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, target, alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskListHandlerFiltersByOwner(t *testing.T) {
	f := newAPIFixture(t, 5)
	f.seedTask(t, alice, "Pay rent")
	f.seedTask(t, alice, "Buy milk")
	f.seedTask(t, bob, "Walk the dog")

	rec := f.do(http.MethodGet, "/tasks", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total"])
	tasks := body["tasks"].([]interface{})
	require.Len(t, tasks, 2)
	for _, raw := range tasks {
		assert.Equal(t, alice, raw.(map[string]interface{})["owner"])
	}
}
