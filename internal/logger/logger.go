package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stdout, LevelInfo)
)

func newLogger(w io.Writer, level Level) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
}

// ParseLevel falls back to info on unknown names.
func ParseLevel(s string) Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return LevelInfo
	}
	return level
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Output(w)
}

// SetPretty switches to human-readable console output.
func SetPretty() {
	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.TimeFormat = time.DateTime
	consoleWriter.Out = os.Stdout
	SetOutput(consoleWriter)
}

// L returns the current logger for callers that want zerolog's fluent API.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

type ctxKey struct{}

// WithFields attaches key/value pairs that every log line for ctx will carry.
func WithFields(ctx context.Context, kv ...interface{}) context.Context {
	fields := append(fieldsFrom(ctx), kv...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]interface{})
	return append([]interface{}(nil), fields...)
}

func Debug(ctx context.Context, msg string, kv ...interface{}) {
	emit(ctx, L().Debug(), msg, kv)
}

func Info(ctx context.Context, msg string, kv ...interface{}) {
	emit(ctx, L().Info(), msg, kv)
}

func Warn(ctx context.Context, msg string, kv ...interface{}) {
	emit(ctx, L().Warn(), msg, kv)
}

func Error(ctx context.Context, err error, msg string, kv ...interface{}) {
	ev := L().Error()
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ctx, ev, msg, kv)
}

func emit(ctx context.Context, ev *zerolog.Event, msg string, kv []interface{}) {
	if ev == nil {
		return
	}
	fields := append(fieldsFrom(ctx), kv...)
	if len(fields)%2 == 1 {
		fields = append(fields, "(MISSING)")
	}
	ev.Fields(fields).Msg(msg)
}
