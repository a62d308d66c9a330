package audio

import "errors"

var (
	// ErrDeviceUnavailable means no audio input device could be opened.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	// ErrInvalidAudioFormat is reported when the audio cannot be used, either
	// because the remote service rejected it or a conversion failed. Uploads
	// are not inspected up front.
	ErrInvalidAudioFormat = errors.New("invalid audio format")
	ErrAlreadyRecording   = errors.New("recording already in progress")
	ErrNotRecording       = errors.New("no recording in progress")
)

// InputDevice opens capture streams on an OS audio input.
type InputDevice interface {
	Open(sampleRate, channels int) (InputStream, error)
}

// InputStream is a blocking capture stream. Read returns the next buffer of
// interleaved samples; an empty slice means nothing was available yet.
// Read is only called from a single goroutine, and Stop/Close only after
// that goroutine has returned.
type InputStream interface {
	Start() error
	Read() ([]int16, error)
	Stop() error
	Close() error
}
