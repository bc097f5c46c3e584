package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler exports the caller's tasks as a spreadsheet.
type ReportHandler struct {
	store domain.Store
}

func NewReportHandler(store domain.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// TasksReportHandler handles GET /reports/tasks. It exports every task
// the caller owns, unpaginated.
func (h *ReportHandler) TasksReportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	subject := auth.SubjectFrom(ctx)

	entities, _, err := h.store.Query(ctx, domain.KindTask,
		[]domain.Filter{domain.Eq("owner", subject)}, 0, 0)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Tasks"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"ID", "Name", "Due date", "Completed", "List"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, e := range entities {
		task := e.(*domain.Task)
		listName := ""
		if task.InList() {
			listName = task.TaskList.Name
		}
		row := []interface{}{task.ID, task.Name, task.DueDate, task.Completed, listName}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
