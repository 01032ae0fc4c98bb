package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
	"github.com/mhue26/Sample-sub000/services/calendar"
)

// Deps are the services the API is built on.
type Deps struct {
	dig.In

	Validate      *validator.Validate
	Translator    ut.Translator
	UserSvc       user.Service
	StudentSvc    student.Service
	MeetingSvc    meeting.Service
	PeriodSvc     period.Service
	PreferenceSvc preference.Service
	CalendarSvc   calendarsvc.Service
}

type Server struct {
	conf     *core.Config
	logger   core.Logger
	deps     Deps
	app      *echo.Echo
	auth     *auth
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(conf *core.Config, logger core.Logger, deps Deps) *Server {
	s := &Server{
		conf:     conf,
		logger:   logger,
		deps:     deps,
		app:      echo.New(),
		auth:     newAuth(conf, deps.UserSvc),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	authed := []echo.MiddlewareFunc{s.auth.middleware(), userMiddleware(s.auth)}

	registerUserAPI(g, authed, s.auth, s.deps.UserSvc, s.deps.Validate)
	registerStudentAPI(g, authed, s.auth, s.deps.StudentSvc, s.deps.Validate)
	registerMeetingAPI(g, authed, s.auth, s.deps.MeetingSvc, s.deps.Validate)
	registerPeriodAPI(g, authed, s.auth, s.deps.PeriodSvc, s.deps.Validate)
	registerPreferenceAPI(g, authed, s.auth, s.deps.PreferenceSvc, s.deps.Validate)
	registerCalendarAPI(g, authed, s.auth, s.deps.CalendarSvc)
}

// Start blocks until the server stops; errors are reported on Errors().
func (s *Server) Start() {
	s.logger.Info("API listening on " + s.conf.Server.Address)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}
