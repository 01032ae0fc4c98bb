package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core/preference"
)

type preferenceApi struct {
	auth     *auth
	svc      preference.Service
	validate *validator.Validate
}

func registerPreferenceAPI(g *echo.Group, authed []echo.MiddlewareFunc, a *auth, svc preference.Service, validate *validator.Validate) {
	api := preferenceApi{
		auth:     a,
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/preferences", authed...)
	pg.GET("", api.retrieve)
	pg.PUT("", api.update)
}

func (api *preferenceApi) retrieve(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.Get(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting preferences")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *preferenceApi) update(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	var data preference.UpdatePreferences
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePreferences")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating preferences")
	}
	return ctx.JSON(http.StatusOK, p)
}
