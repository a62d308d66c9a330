package watcher

import "context"

// Watcher monitors a folder for new audio files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per new audio file.
type EventHandler func(ctx context.Context, filePath string) error
