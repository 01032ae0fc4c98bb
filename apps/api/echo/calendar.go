package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/services/calendar"
)

// default feed window around today, in days
const (
	feedDaysBefore = 30
	feedDaysAfter  = 180
)

type calendarApi struct {
	auth *auth
	svc  calendarsvc.Service
}

func registerCalendarAPI(g *echo.Group, authed []echo.MiddlewareFunc, a *auth, svc calendarsvc.Service) {
	api := calendarApi{auth: a, svc: svc}
	g.GET("/calendar.ics", api.feed, authed...)
}

type FeedRequest struct {
	From core.Date `query:"from"`
	To   core.Date `query:"to"`
}

func (api *calendarApi) feed(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	var req FeedRequest
	if err := bindQuery(ctx, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	today := core.Today()
	if req.From.IsZero() {
		req.From = today.AddDays(-feedDaysBefore)
	}
	if req.To.IsZero() {
		req.To = today.AddDays(feedDaysAfter)
	}
	if req.To.Before(req.From) {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "end date cannot be before start date"})
	}

	ics, err := api.svc.UserCalendar(ctx.Request().Context(), usr.ID, req.From, req.To)
	if err != nil {
		return errors.Wrap(err, "exporting calendar")
	}
	return ctx.Blob(http.StatusOK, calendarsvc.ContentType, []byte(ics))
}
