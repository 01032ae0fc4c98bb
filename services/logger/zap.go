package logsvc

import (
	"go.uber.org/zap"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/user"
)

// ZapLogger is the development Logger: structured and human readable, nothing leaves the host.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var (
		base *zap.Logger
		err  error
	)
	if conf.Debug {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return WrapZap(base.With(zap.String("env", conf.Env), zap.String("build", conf.Build))), nil
}

func WrapZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *ZapLogger {
	return WrapZap(zap.NewNop())
}

// fields turns the Logger args into zap key-value pairs.
func (l ZapLogger) fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, 2*len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			kvs = append(kvs, zap.Error(a))
		case user.User:
			kvs = append(kvs, zap.String("user_id", a.ID), zap.String("username", a.Username))
		case map[string]interface{}:
			for k, v := range a {
				kvs = append(kvs, zap.Any(k, v))
			}
		default:
			if fields, ok := objectFields(a); ok {
				for k, v := range fields {
					kvs = append(kvs, zap.Any(k, v))
				}
			} else {
				kvs = append(kvs, zap.Any("extra", a))
			}
		}
	}
	return kvs
}

func (l ZapLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugw(msg, l.fields(args)...)
}

func (l ZapLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infow(msg, l.fields(args)...)
}

func (l ZapLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnw(msg, l.fields(args)...)
}

func (l ZapLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorw(msg, l.fields(args)...)
}

func (l ZapLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalw(msg, l.fields(args)...)
}

func (l ZapLogger) Close() {
	_ = l.sugar.Sync()
}
