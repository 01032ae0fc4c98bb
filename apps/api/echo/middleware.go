package echoapi

import (
	"github.com/labstack/echo/v4"
)

// userMiddleware loads the authenticated user into the context. Deactivated accounts are refused.
func userMiddleware(a *auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := a.contextUser(ctx); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func adminMiddleware(a *auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := a.contextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.IsAdmin() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
