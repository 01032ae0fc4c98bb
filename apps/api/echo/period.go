package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/period"
)

type periodApi struct {
	auth     *auth
	svc      period.Service
	validate *validator.Validate
}

func registerPeriodAPI(g *echo.Group, authed []echo.MiddlewareFunc, a *auth, svc period.Service, validate *validator.Validate) {
	api := periodApi{
		auth:     a,
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/terms", authed...)
	tg.GET("", api.queryTerms)
	tg.POST("", api.createTerm)
	tdg := tg.Group("/:id", api.termMiddleware)
	tdg.GET("", api.retrieveTerm)
	tdg.PUT("", api.updateTerm)
	tdg.DELETE("", api.destroyTerm)

	hg := g.Group("/holidays", authed...)
	hg.GET("", api.queryHolidays)
	hg.POST("", api.createHoliday)
	hdg := hg.Group("/:id", api.holidayMiddleware)
	hdg.GET("", api.retrieveHoliday)
	hdg.PUT("", api.updateHoliday)
	hdg.DELETE("", api.destroyHoliday)

	pg := g.Group("/periods", authed...)
	pg.GET("", api.queryPeriods)
	pg.GET("/gaps", api.gaps)
	pg.GET("/current", api.current)
}

// filter binds the period query params, scoped to the authenticated user.
func (api *periodApi) filter(ctx echo.Context) (period.QueryFilter, error) {
	var filter period.QueryFilter
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return filter, err
	}
	if err := bindQuery(ctx, &filter); err != nil {
		return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filter.UserID = usr.ID
	return filter, nil
}

func (api *periodApi) bindData(ctx echo.Context) (period.PeriodData, error) {
	var data period.PeriodData
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to PeriodData")
	}
	return data, data.Validate(api.validate)
}

// Terms

func (api *periodApi) termMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := api.auth.contextUser(ctx)
		if err != nil {
			return err
		}
		t, err := api.svc.GetTerm(ctx.Request().Context(), usr.ID, ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "finding term")
		}
		ctx.Set(contextObjectKey, t)
		return next(ctx)
	}
}

func (api *periodApi) term(ctx echo.Context) (period.Term, error) {
	t, ok := ctx.Get(contextObjectKey).(period.Term)
	if !ok {
		return period.Term{}, errors.Wrap(errObjNotFoundInCtx, "retrieving term")
	}
	return t, nil
}

func (api *periodApi) queryTerms(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	terms, err := api.svc.QueryTerms(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying terms")
	}
	return ctx.JSON(http.StatusOK, terms)
}

func (api *periodApi) createTerm(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindData(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.CreateTerm(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating term")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *periodApi) retrieveTerm(ctx echo.Context) error {
	t, err := api.term(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *periodApi) updateTerm(ctx echo.Context) error {
	t, err := api.term(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindData(ctx)
	if err != nil {
		return err
	}
	t, err = api.svc.UpdateTerm(ctx.Request().Context(), t, data)
	if err != nil {
		return errors.Wrap(err, "updating term")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *periodApi) destroyTerm(ctx echo.Context) error {
	t, err := api.term(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTerm(ctx.Request().Context(), t.UserID, t.ID); err != nil {
		return errors.Wrap(err, "deleting term")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Holidays

func (api *periodApi) holidayMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := api.auth.contextUser(ctx)
		if err != nil {
			return err
		}
		h, err := api.svc.GetHoliday(ctx.Request().Context(), usr.ID, ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "finding holiday")
		}
		ctx.Set(contextObjectKey, h)
		return next(ctx)
	}
}

func (api *periodApi) holiday(ctx echo.Context) (period.Holiday, error) {
	h, ok := ctx.Get(contextObjectKey).(period.Holiday)
	if !ok {
		return period.Holiday{}, errors.Wrap(errObjNotFoundInCtx, "retrieving holiday")
	}
	return h, nil
}

func (api *periodApi) queryHolidays(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	holidays, err := api.svc.QueryHolidays(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying holidays")
	}
	return ctx.JSON(http.StatusOK, holidays)
}

func (api *periodApi) createHoliday(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindData(ctx)
	if err != nil {
		return err
	}
	h, err := api.svc.CreateHoliday(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating holiday")
	}
	return ctx.JSON(http.StatusCreated, h)
}

func (api *periodApi) retrieveHoliday(ctx echo.Context) error {
	h, err := api.holiday(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *periodApi) updateHoliday(ctx echo.Context) error {
	h, err := api.holiday(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindData(ctx)
	if err != nil {
		return err
	}
	h, err = api.svc.UpdateHoliday(ctx.Request().Context(), h, data)
	if err != nil {
		return errors.Wrap(err, "updating holiday")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *periodApi) destroyHoliday(ctx echo.Context) error {
	h, err := api.holiday(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteHoliday(ctx.Request().Context(), h.UserID, h.ID); err != nil {
		return errors.Wrap(err, "deleting holiday")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Periods

func (api *periodApi) queryPeriods(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	periods, err := api.svc.Periods(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *periodApi) gaps(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	gaps, err := api.svc.Gaps(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "finding gaps")
	}
	return ctx.JSON(http.StatusOK, gaps)
}

type CurrentRequest struct {
	Today core.Date `query:"today"`
}

// current reports the term containing `?today=` (defaults to the server's today).
func (api *periodApi) current(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	var req CurrentRequest
	if err := bindQuery(ctx, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Today.IsZero() {
		req.Today = core.Today()
	}

	cur, err := api.svc.Current(ctx.Request().Context(), usr.ID, req.Today)
	if err != nil {
		return errors.Wrap(err, "finding current term")
	}
	return ctx.JSON(http.StatusOK, cur)
}
