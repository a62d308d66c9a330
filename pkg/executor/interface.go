package executor

import "context"

// Executor runs external tools such as ffmpeg.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports whether name can be found on PATH.
	LookPath(name string) (string, error)
}
