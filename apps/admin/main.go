package main

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

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
	"github.com/mhue26/Sample-sub000/storage/database"
	"github.com/mhue26/Sample-sub000/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		panic(err)
	}
	defer zl.Close()
	logger = zl

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(ctx, db))

	// start CLI
	cli := newCommandLine(conf, db)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

func newCommandLine(conf *core.Config, db *sqlx.DB) *commandLine {
	usrRepo := sqlxrepos.NewUserRepository(db)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(logger, false)

	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	// the CLI never creates meetings: no form validators needed
	meetingSvc := meeting.NewService(sqlxrepos.NewMeetingRepository(db), studentSvc, validator.New())
	periodSvc := period.NewService(sqlxrepos.NewPeriodRepository(db))

	return &commandLine{
		db:      db,
		usrRepo: usrRepo,
		digestSvc: digest.NewService(
			user.NewService(usrRepo, mailSvc, logger, conf),
			meetingSvc,
			periodSvc,
			studentSvc,
			preference.NewService(sqlxrepos.NewPreferenceRepository(db)),
			calendarsvc.NewService(conf, meetingSvc, periodSvc, studentSvc),
			mailSvc,
			logger,
		),
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
