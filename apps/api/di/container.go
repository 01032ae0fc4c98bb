package di

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/mhue26/Sample-sub000/apps/api/echo"
	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/digest"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
	"github.com/mhue26/Sample-sub000/services/calendar"
	"github.com/mhue26/Sample-sub000/services/email"
	"github.com/mhue26/Sample-sub000/services/logger"
	"github.com/mhue26/Sample-sub000/services/scheduler"
	"github.com/mhue26/Sample-sub000/storage/database"
	"github.com/mhue26/Sample-sub000/storage/database/inmem"
	"github.com/mhue26/Sample-sub000/storage/database/sqlx"
)

// a digest run may not outlive this
const jobTimeout = 30 * time.Minute

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories are backed by postgres, or by memory when conf.Database.InMemory is set.
type Repositories struct {
	dig.Out
	DB          *sqlx.DB // nil when in memory
	Users       user.Repository
	Students    student.Repository
	Meetings    meeting.Repository
	Periods     period.Repository
	Preferences preference.Repository
}

func newLogger(conf *core.Config) core.Logger {
	return newNamedLogger(conf, "API")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newNamedLogger(conf, "DB")
}

func newNamedLogger(conf *core.Config, name string) core.Logger {
	if conf.Debug {
		logger, err := logsvc.NewZapLogger(conf)
		if err != nil {
			log.Fatalf("creating %s logger: %v", name, err)
		}
		return logger
	}
	stdLogger := log.New(os.Stdout, name+" : ", log.LstdFlags|log.Lmicroseconds)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	if conf.Database.InMemory {
		loggerParam.Logger.Warn("using the in-memory database, data is lost on exit")
		db := inmemdb.NewDB()
		return Repositories{
			Users:       inmemdb.NewUserRepository(db),
			Students:    inmemdb.NewStudentRepository(db),
			Meetings:    inmemdb.NewMeetingRepository(db),
			Periods:     inmemdb.NewPeriodRepository(db),
			Preferences: inmemdb.NewPreferenceRepository(db),
		}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Repositories{
		DB:          db,
		Users:       sqlxrepos.NewUserRepository(db),
		Students:    sqlxrepos.NewStudentRepository(db),
		Meetings:    sqlxrepos.NewMeetingRepository(db),
		Periods:     sqlxrepos.NewPeriodRepository(db),
		Preferences: sqlxrepos.NewPreferenceRepository(db),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newDigestService(
	userSvc user.Service,
	meetingSvc meeting.Service,
	periodSvc period.Service,
	studentSvc student.Service,
	preferenceSvc preference.Service,
	calendarSvc calendarsvc.Service,
	mailSvc core.EmailService,
	logger core.Logger,
) *digest.Service {
	return digest.NewService(userSvc, meetingSvc, periodSvc, studentSvc, preferenceSvc, calendarSvc, mailSvc, logger)
}

func newScheduler(conf *core.Config, logger core.Logger, digestSvc *digest.Service) (*schedulersvc.Scheduler, error) {
	s := schedulersvc.New(logger, jobTimeout)
	if conf.Digest.Enabled {
		if err := s.Add(conf.Digest.Schedule, digestSvc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(echoapi.NewTranslator))
	must(c.Provide(echoapi.NewValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(meeting.NewService))
	must(c.Provide(period.NewService))
	must(c.Provide(preference.NewService))
	must(c.Provide(calendarsvc.NewService))
	must(c.Provide(newDigestService))
	must(c.Provide(newScheduler))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
