package logger

import "context"

// Logger is a leveled, printf-style logger. The context is accepted for
// request-scoped values and is currently unused by the implementation.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}
