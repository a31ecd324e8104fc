package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

func init() {
	zerolog.TimestampFieldName = FieldTimestamp
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

type jsonLogger struct {
	zl zerolog.Logger
}

// New writes JSON lines to stdout at debug level.
func New(service string) Logger {
	return NewWithWriter(service, os.Stdout, "debug")
}

// NewWithWriter builds a logger for the given minimum level name
// (debug, info, error). Unknown names fall back to debug.
func NewWithWriter(service string, w io.Writer, level string) Logger {
	hostname, _ := os.Hostname()
	zl := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str(FieldService, service).
		Str(FieldHostname, hostname).
		Logger()
	return &jsonLogger{zl: zl}
}

// Nop discards everything.
func Nop() Logger {
	return &jsonLogger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return lvl
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(l.zl.Info(), action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(l.zl.Debug(), action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(l.zl.Error(), action, message, requestID, details, err)
}

func (l *jsonLogger) log(ev *zerolog.Event, action, message, requestID string, details map[string]interface{}, err error) {
	// disabled levels return a nil event
	if ev == nil {
		return
	}

	ev = ev.Str(FieldRequestID, requestID).Str(FieldAction, action)
	if len(details) > 0 {
		ev = ev.Interface(FieldDetails, details)
	}
	if err != nil {
		ev = ev.Dict(FieldError, zerolog.Dict().Str("msg", err.Error()))
	}
	ev.Msg(message)
}
