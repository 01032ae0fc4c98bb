package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/user"
)

// RollbarLogger reports to Rollbar and echoes everything to `std`.
// Rollbar stays disabled without a token and in test mode.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{std: std}
}

// stack frames of RollbarLogger dropped from reported errors
const rollbarSkip = 3

// rollbarItem is what one Logger call sends to Rollbar.
type rollbarItem struct {
	person *user.User
	args   []interface{}
}

// newRollbarItem sorts the Logger args into what rollbar.Log understands: the message or the first error,
// and a single custom data map holding the map args, the ids of domain objects and anything else.
// Rollbar keeps only one of each, so `msg` moves to the custom data when an error is reported.
func newRollbarItem(msg string, args []interface{}) rollbarItem {
	var (
		item   rollbarItem
		err    error
		custom = make(map[string]interface{})
		extras []interface{}
	)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if item.person == nil {
				usr := a
				item.person = &usr
			}
		case error:
			if err == nil {
				err = a
			} else {
				extras = append(extras, a.Error())
			}
		case map[string]interface{}:
			for k, v := range a {
				custom[k] = v
			}
		default:
			if fields, ok := objectFields(a); ok {
				for k, v := range fields {
					custom[k] = v
				}
			} else {
				extras = append(extras, a)
			}
		}
	}
	if len(extras) > 0 {
		custom["extra"] = extras
	}

	if err != nil {
		custom["message"] = msg
		item.args = append(item.args, err, rollbarSkip)
	} else {
		item.args = append(item.args, msg)
	}
	if len(custom) > 0 {
		item.args = append(item.args, custom)
	}
	return item
}

func (l RollbarLogger) report(level, msg string, args []interface{}) {
	item := newRollbarItem(msg, args)
	if item.person != nil {
		rollbar.SetPerson(item.person.ID, item.person.Username, item.person.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, item.args...)

	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.report(rollbar.DEBUG, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.INFO, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}

// Close flushes the pending Rollbar items.
func (l RollbarLogger) Close() {
	rollbar.Wait()
}
