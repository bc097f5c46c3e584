package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCreateHandler(t *testing.T) {
	f := newAPIFixture(t, 5)

	rec := f.do(http.MethodPost, "/lists", alice, `{"name":"Errands","public":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Errands", body["name"])
	assert.Equal(t, true, body["public"])
	assert.Equal(t, alice, body["owner"])
	assert.Empty(t, body["tasks"])
}

func TestListCreateHandlerRejectsBadPayloads(t *testing.T) {
	f := newAPIFixture(t, 5)
	f.seedList(t, alice, "Errands", false)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing public", `{"name":"Chores"}`, http.StatusBadRequest, "required_property_missing"},
		{"name too long", `{"name":"A very serious list about nothing","public":false}`, http.StatusBadRequest, "invalid_list_name"},
		{"public not boolean", `{"name":"Chores","public":"yes"}`, http.StatusBadRequest, "invalid_public"},
		{"duplicate name per owner", `{"name":"Errands","public":false}`, http.StatusForbidden, "list_name_not_unique"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/lists", alice, tc.body)
			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeBody(t, rec)["code"])
		})
	}
}

func TestListGetHandlerVisibility(t *testing.T) {
	f := newAPIFixture(t, 5)
	private := f.seedList(t, alice, "Private", false)
	public := f.seedList(t, alice, "Public", true)

	t.Run("anyone reads a public list", func(t *testing.T) {
		rec := f.do(http.MethodGet, fmt.Sprintf("/lists/%d", public.ID), "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous caller cannot read a private list", func(t *testing.T) {
		rec := f.do(http.MethodGet, fmt.Sprintf("/lists/%d", private.ID), "", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeBody(t, rec)["code"])
	})

	t.Run("owner reads a private list", func(t *testing.T) {
		rec := f.do(http.MethodGet, fmt.Sprintf("/lists/%d", private.ID), alice, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestListCollectionHandler(t *testing.T) {
	f := newAPIFixture(t, 5)
	f.seedList(t, alice, "Private", false)
	f.seedList(t, alice, "Public", true)
	f.seedList(t, bob, "Bob public", true)

	t.Run("authenticated callers see their own lists only", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/lists", alice, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["total"])
	})

	t.Run("anonymous callers see public lists only", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/lists", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["total"])
		for _, raw := range body["lists"].([]interface{}) {
			assert.Equal(t, true, raw.(map[string]interface{})["public"])
		}
	})
}

func TestListAssignAndRemoveTaskHandlers(t *testing.T) {
	f := newAPIFixture(t, 5)
	list := f.seedList(t, alice, "Errands", false)
	task := f.seedTask(t, alice, "Pay rent")
	target := fmt.Sprintf("/lists/%d/tasks/%d", list.ID, task.ID)

	rec := f.do(http.MethodPatch, target, alice, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), alice, "")
	body := decodeBody(t, rec)
	require.NotNil(t, body["task_list"])
	assert.Equal(t, "Errands", body["task_list"].(map[string]interface{})["name"])

	t.Run("assigning twice is rejected", func(t *testing.T) {
		rec := f.do(http.MethodPatch, target, alice, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "task_list_not_empty", decodeBody(t, rec)["code"])
	})

	rec = f.do(http.MethodDelete, target, alice, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), alice, "")
	assert.Nil(t, decodeBody(t, rec)["task_list"])

	t.Run("removing an unassigned task is rejected", func(t *testing.T) {
		rec := f.do(http.MethodDelete, target, alice, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "task_list_empty", decodeBody(t, rec)["code"])
	})
}

func TestListDeleteHandlerCascades(t *testing.T) {
	f := newAPIFixture(t, 5)
	list := f.seedList(t, alice, "Errands", false)
	task := f.seedTask(t, alice, "Pay rent")

	rec := f.do(http.MethodPatch, fmt.Sprintf("/lists/%d/tasks/%d", list.ID, task.ID), alice, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodDelete, fmt.Sprintf("/lists/%d", list.ID), alice, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
