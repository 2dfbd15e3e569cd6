// jsonlog.go - Structured logging for the upload service.
package server

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger provides leveled, structured logging. JSON output is used in
// production or when requested; plain text otherwise.
type Logger struct {
	l *logrus.Logger
}

// NewLogger builds a logger writing to out (stdout when nil).
func NewLogger(out io.Writer, cfg LogConfig) *Logger {
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(parseLevel(cfg.Level))

	if cfg.Format == "json" || (cfg.Format == "" && cfg.Env == "production") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "msg",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    true,
			QuoteEmptyFields: true,
		})
	}

	return &Logger{l: l}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Debug logs msg at debug level.
func (l *Logger) Debug(msg string, fields map[string]any) {
	l.l.WithFields(fields).Debug(msg)
}

// Info logs msg at info level.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.l.WithFields(fields).Info(msg)
}

// Warn logs msg at warn level.
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.l.WithFields(fields).Warn(msg)
}

// Error logs msg with err attached under the "error" key.
func (l *Logger) Error(msg string, fields map[string]any, err error) {
	e := l.l.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
