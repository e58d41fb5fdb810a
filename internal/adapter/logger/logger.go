package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	entry *logrus.Entry
}

func New(service, level string) Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service, level string, out io.Writer) Logger {
	hostname, _ := os.Hostname()

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(parseLevel(level))
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.999999999Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})

	return &jsonLogger{
		entry: l.WithFields(logrus.Fields{
			"service":  service,
			"hostname": hostname,
		}),
	}
}

// Discard returns a logger that drops everything
func Discard() Logger {
	return NewWithWriter("discard", "error", io.Discard)
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details).Info(message)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details).Debug(message)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	e := l.with(action, requestID, details)
	if err != nil {
		e = e.WithField("error", newErrorInfo(err))
	}
	e.Error(message)
}

func (l *jsonLogger) with(action, requestID string, details map[string]interface{}) *logrus.Entry {
	e := l.entry.WithFields(logrus.Fields{
		"action":     action,
		"request_id": requestID,
	})
	if len(details) > 0 {
		e = e.WithField("details", details)
	}
	return e
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
