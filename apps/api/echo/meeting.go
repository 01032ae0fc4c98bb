package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core/meeting"
)

type meetingApi struct {
	auth     *auth
	svc      meeting.Service
	validate *validator.Validate
}

func registerMeetingAPI(g *echo.Group, authed []echo.MiddlewareFunc, a *auth, svc meeting.Service, validate *validator.Validate) {
	api := meetingApi{
		auth:     a,
		svc:      svc,
		validate: validate,
	}

	mg := g.Group("/meetings", authed...)
	mg.GET("", api.query)
	mg.POST("", api.create)
	mg.POST("/preview", api.preview)
	mg.DELETE("/series/:id", api.destroySeries)

	// detail endpoints
	dg := mg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// objectMiddleware loads the requested meeting of the authenticated user.
func (api *meetingApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := api.auth.contextUser(ctx)
		if err != nil {
			return err
		}
		m, err := api.svc.GetByID(ctx.Request().Context(), usr.ID, ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "finding meeting")
		}
		ctx.Set(contextObjectKey, m)
		return next(ctx)
	}
}

func (api *meetingApi) object(ctx echo.Context) (meeting.Meeting, error) {
	m, ok := ctx.Get(contextObjectKey).(meeting.Meeting)
	if !ok {
		return meeting.Meeting{}, errors.Wrap(errObjNotFoundInCtx, "retrieving meeting")
	}
	return m, nil
}

func (api *meetingApi) query(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	var filter meeting.QueryFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filter.Clean()
	filter.UserID = usr.ID
	ordering := new(Ordering)
	ordering.Bind(ctx)

	meetings, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying meetings")
	}
	return ctx.JSON(http.StatusOK, meetings)
}

func (api *meetingApi) bindNew(ctx echo.Context) (string, meeting.NewMeeting, error) {
	var data meeting.NewMeeting
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return "", data, err
	}
	if err := ctx.Bind(&data); err != nil {
		return "", data, errors.Wrap(err, "binding to NewMeeting")
	}
	return usr.ID, data, nil
}

// create expands the form into its occurrences and stores them all, or none on error.
func (api *meetingApi) create(ctx echo.Context) error {
	userID, data, err := api.bindNew(ctx)
	if err != nil {
		return err
	}
	meetings, err := api.svc.Create(ctx.Request().Context(), userID, data)
	if err != nil {
		return errors.Wrap(err, "creating meetings")
	}
	return ctx.JSON(http.StatusCreated, meetings)
}

func (api *meetingApi) preview(ctx echo.Context) error {
	userID, data, err := api.bindNew(ctx)
	if err != nil {
		return err
	}
	meetings, err := api.svc.Preview(ctx.Request().Context(), userID, data)
	if err != nil {
		return errors.Wrap(err, "previewing meetings")
	}
	return ctx.JSON(http.StatusOK, meetings)
}

func (api *meetingApi) retrieve(ctx echo.Context) error {
	m, err := api.object(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetingApi) update(ctx echo.Context) error {
	m, err := api.object(ctx)
	if err != nil {
		return err
	}
	var data meeting.UpdateMeeting
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMeeting")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, err = api.svc.Update(ctx.Request().Context(), m, data)
	if err != nil {
		return errors.Wrap(err, "updating meeting")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetingApi) destroy(ctx echo.Context) error {
	m, err := api.object(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), m.UserID, m.ID); err != nil {
		return errors.Wrap(err, "deleting meeting")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *meetingApi) destroySeries(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}
	var query meeting.DeleteSeries
	if err := bindQuery(ctx, &query); err != nil {
		return errors.Wrap(err, "binding to DeleteSeries")
	}

	n, err := api.svc.DeleteSeries(ctx.Request().Context(), usr.ID, ctx.Param("id"), query.FromID)
	if err != nil {
		return errors.Wrap(err, "deleting series")
	}
	return ctx.JSON(http.StatusOK, DeletedResponse{Deleted: n})
}

type DeletedResponse struct {
	Deleted int `json:"deleted"`
}
