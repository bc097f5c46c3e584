package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// offsetParam reads the offset query parameter; absent or unparseable
// values mean the first page.
func offsetParam(c echo.Context) int {
	raw := c.QueryParam("offset")
	if raw == "" {
		return 0
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// addPaginationLinks attaches prev/next links to a collection response.
// prev exists iff the previous page's offset is non-negative; next exists
// iff another page remains before total.
func addPaginationLinks(c echo.Context, res map[string]interface{}, offset, pageLimit, total int) {
	base := requestBaseURL(c)
	if prev := offset - pageLimit; prev >= 0 {
		res["prev"] = base + "?offset=" + strconv.Itoa(prev)
	}
	if next := offset + pageLimit; next < total {
		res["next"] = base + "?offset=" + strconv.Itoa(next)
	}
}

// requestBaseURL rebuilds the request URL without the query string, for
// self and pagination links.
func requestBaseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}

func selfLink(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
