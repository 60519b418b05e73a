package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	rollbarerrs "github.com/rollbar/rollbar-go/errors"

	"github.com/shulehq/shule/core"
)

// RollbarLogger logs to stdout and, when enabled, reports errors to Rollbar.
type RollbarLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rollbarerrs.StackTracer)
	return &RollbarLogger{std: std}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.enabled = enabled
	rollbar.SetEnabled(enabled)
}

func (l *RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.print(msg, args)
	if l.enabled {
		rollbar.Debug(prepend(msg, args)...)
	}
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.print(msg, args)
	if l.enabled {
		rollbar.Info(prepend(msg, args)...)
	}
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.print(msg, args)
	if l.enabled {
		rollbar.Error(prepend(msg, args)...)
	}
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	if l.enabled {
		rollbar.Critical(prepend(msg, args)...)
		rollbar.Wait()
	}
	l.std.Fatalf("%s %+v", msg, args)
}

func prepend(msg string, args []interface{}) []interface{} {
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	return append(newArgs, args...)
}
