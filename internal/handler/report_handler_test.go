package handler_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTasksReportHandler(t *testing.T) {
	f := newAPIFixture(t, 5)
	f.seedTask(t, alice, "Pay rent")
	f.seedTask(t, alice, "Buy milk")
	f.seedTask(t, bob, "Walk the dog")

	rec := f.do(http.MethodGet, "/reports/tasks", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][1])
	names := []string{rows[1][1], rows[2][1]}
	assert.ElementsMatch(t, []string{"Pay rent", "Buy milk"}, names)
}
