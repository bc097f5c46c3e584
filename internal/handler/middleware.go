package handler

import (
	"encoding/json"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/domain"
)

// AcceptJSON rejects requests whose Accept header does not admit JSON
// before the wrapped handler runs.
func AcceptJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get(echo.HeaderAccept)
		if !acceptsJSON(accept) {
			return domain.ErrNotAcceptable
		}
		return next(c)
	}
}

func acceptsJSON(accept string) bool {
	if accept == "" {
		return false
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch mediaType {
		case "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}

// bindPayload decodes the request body into a generic JSON object so the
// validator can check presence and JSON types itself.
func bindPayload(c echo.Context) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return nil, domain.NewError("invalid_request_body", "Cannot parse the request body as JSON.", 400)
	}
	return payload, nil
}
