package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pages are windows of PAGE_LIMIT entities; prev/next links appear only
// when the corresponding page exists.
func TestTaskListHandlerPagination(t *testing.T) {
	f := newAPIFixture(t, 10)
	for i := 0; i < 25; i++ {
		f.seedTask(t, alice, fmt.Sprintf("Task %02d", i))
	}

	t.Run("first page has next but no prev", func(t *testing.T) {
		body := decodeBody(t, f.do(http.MethodGet, "/tasks", alice, ""))
		assert.Equal(t, float64(25), body["total"])
		assert.Len(t, body["tasks"], 10)
		assert.NotContains(t, body, "prev")
		assert.Equal(t, "http://example.com/tasks?offset=10", body["next"])
	})

	t.Run("middle page has both links", func(t *testing.T) {
		body := decodeBody(t, f.do(http.MethodGet, "/tasks?offset=10", alice, ""))
		assert.Equal(t, "http://example.com/tasks?offset=0", body["prev"])
		assert.Equal(t, "http://example.com/tasks?offset=20", body["next"])
	})

	t.Run("last page has prev but no next", func(t *testing.T) {
		body := decodeBody(t, f.do(http.MethodGet, "/tasks?offset=20", alice, ""))
		assert.Len(t, body["tasks"], 5)
		assert.Equal(t, "http://example.com/tasks?offset=10", body["prev"])
		assert.NotContains(t, body, "next")
	})

	t.Run("unparseable offset means the first page", func(t *testing.T) {
		body := decodeBody(t, f.do(http.MethodGet, "/tasks?offset=banana", alice, ""))
		assert.Len(t, body["tasks"], 10)
		assert.NotContains(t, body, "prev")
	})
}

func TestAcceptJSON(t *testing.T) {
	f := newAPIFixture(t, 5)
	f.seedTask(t, alice, "Pay rent")

	cases := []struct {
		accept string
		status int
	}{
		{"application/json", http.StatusOK},
		{"application/*", http.StatusOK},
		{"*/*", http.StatusOK},
		{"text/html,application/json;q=0.9", http.StatusOK},
		{"text/html", http.StatusNotAcceptable},
		{"", http.StatusNotAcceptable},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("accept %q", tc.accept), func(t *testing.T) {
			rec := f.doWithAccept(http.MethodGet, "/tasks", alice, tc.accept)
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNotAcceptable {
				assert.Equal(t, "not_acceptable", decodeBody(t, rec)["code"])
			}
		})
	}
}
