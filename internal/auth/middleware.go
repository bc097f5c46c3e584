package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/logger"
)

// Middleware authenticates the request and stores the verified caller on
// the request context. Routes listed as auth-optional proceed anonymously
// on any verification failure instead of aborting; everything else answers
// with the verification error before the handler runs.
func Middleware(v *Verifier, rules *config.APIRules) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			routeID := c.Request().Method + " " + c.Path()
			identity, err := authenticate(c, v)
			if err != nil {
				if !rules.IsAuthOptional(routeID) {
					return err
				}
				logger.InfoLog(c.Request().Context(),
					fmt.Sprintf("proceeding anonymously on %s: %v", routeID, err))
				return next(c)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), identity)))
			return next(c)
		}
	}
}

func authenticate(c echo.Context, v *Verifier) (*Identity, error) {
	token, err := ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return nil, err
	}
	return v.Verify(c.Request().Context(), token)
}
