// Package logger fans structured log calls out to one or more backends.
// Entries carry request scoped key/value pairs, such as the request id or the
// drug pair being resolved, through a context.Context.
package logger

import "context"

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger holds multiple logging backends and dispatches log calls to all of them.
type Logger struct {
	instances []LoggerInstance
}

var singleton *Logger

func getSingleton() *Logger {
	return singleton
}

// Init initializes the global logger with one or more logging backends.
// This must be called before using any logging functions.
func Init(instances ...LoggerInstance) {
	singleton = &Logger{
		instances: instances,
	}
}

// Log writes a message at the default log level to all configured backends.
func Log(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Log(message, keyvals...)
	}
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Error(message, keyvals...)
	}
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Debug(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, instance := range logger.instances {
		instance.Fatal(message, keyvals...)
	}
}

// Entry is a child logger that prepends its key/value pairs to every call.
// A nil *Entry logs without extra pairs.
type Entry struct {
	keyvals []any
}

// With returns an Entry carrying keyvals.
func With(keyvals ...any) *Entry {
	return &Entry{keyvals: append([]any(nil), keyvals...)}
}

// With returns a new Entry carrying e's pairs followed by keyvals.
func (e *Entry) With(keyvals ...any) *Entry {
	return &Entry{keyvals: e.merge(keyvals)}
}

func (e *Entry) merge(keyvals []any) []any {
	if e == nil || len(e.keyvals) == 0 {
		return keyvals
	}
	out := make([]any, 0, len(e.keyvals)+len(keyvals))
	out = append(out, e.keyvals...)
	return append(out, keyvals...)
}

func (e *Entry) Debug(message string, keyvals ...any) { Debug(message, e.merge(keyvals)...) }
func (e *Entry) Info(message string, keyvals ...any)  { Info(message, e.merge(keyvals)...) }
func (e *Entry) Warn(message string, keyvals ...any)  { Warn(message, e.merge(keyvals)...) }
func (e *Entry) Error(message string, keyvals ...any) { Error(message, e.merge(keyvals)...) }

type entryKey struct{}

// NewContext returns a copy of ctx that carries e.
func NewContext(ctx context.Context, e *Entry) context.Context {
	return context.WithValue(ctx, entryKey{}, e)
}

// FromContext returns the Entry stored in ctx, or an empty one.
func FromContext(ctx context.Context) *Entry {
	if e, ok := ctx.Value(entryKey{}).(*Entry); ok && e != nil {
		return e
	}
	return &Entry{}
}
