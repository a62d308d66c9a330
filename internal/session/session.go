package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/summarizer"
)

var (
	// ErrMissingInput is returned when summarize is triggered with no audio.
	ErrMissingInput = errors.New("please record or upload an audio file first")
	// ErrBusy is returned while a summarize request is in flight.
	ErrBusy     = errors.New("a summary is already being generated")
	ErrNotFound = errors.New("session not found")
)

type State int

const (
	Idle State = iota
	Ready
	Summarizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Summarizing:
		return "summarizing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	// KeepAudio leaves the recording in place after a summarize attempt so
	// it can be summarized again. Temporary files are then only removed by
	// Close or by replacing the recording.
	KeepAudio bool
}

// Session is the state of one interaction cycle: the current recording,
// the instruction and the last result.
type Session struct {
	id         string
	summarizer summarizer.Summarizer
	opts       Options
	logger     logger.Logger

	mu         sync.Mutex
	state      State
	recording  audio.Recording
	summary    string
	lastErr    error
	lastActive time.Time
	closed     bool
}

// View is a point-in-time copy of a session for rendering.
type View struct {
	ID               string
	State            State
	HasAudio         bool
	SummarizeEnabled bool
	Summary          string
	Error            string
}

func New(id string, s summarizer.Summarizer, opts Options, log logger.Logger) *Session {
	return &Session{
		id:         id,
		summarizer: s,
		opts:       opts,
		logger:     log,
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// SetRecording makes rec the session's audio. A previous temporary file is
// removed unless it is the same path.
func (s *Session) SetRecording(ctx context.Context, rec audio.Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotFound
	}
	if s.state == Summarizing {
		return ErrBusy
	}

	if !s.recording.IsZero() && s.recording.Path != rec.Path {
		s.removeAudio(ctx)
	}
	s.recording = rec
	s.lastErr = nil
	s.lastActive = time.Now()
	if rec.IsZero() {
		s.state = Idle
	} else {
		s.state = Ready
	}
	return nil
}

// Summarize runs one summarize cycle for the current recording. It fails
// with ErrMissingInput, without contacting the service, when there is none.
func (s *Session) Summarize(ctx context.Context, instruction string) (string, error) {
	s.mu.Lock()
	switch {
	case s.state == Summarizing:
		s.mu.Unlock()
		return "", ErrBusy
	case s.recording.IsZero():
		s.lastErr = ErrMissingInput
		s.mu.Unlock()
		return "", ErrMissingInput
	}
	rec := s.recording
	s.state = Summarizing
	s.lastActive = time.Now()
	s.mu.Unlock()

	text, err := s.summarizer.Summarize(ctx, rec, instruction)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	if err != nil {
		s.logger.Error(ctx, "Session %s: %v", s.id, err)
		s.lastErr = err
	} else {
		s.summary = text
		s.lastErr = nil
	}

	if s.opts.KeepAudio && !s.closed {
		s.state = Ready
	} else {
		s.removeAudio(ctx)
		s.recording = audio.Recording{}
		s.state = Idle
	}
	return text, err
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:               s.id,
		State:            s.state,
		HasAudio:         !s.recording.IsZero(),
		SummarizeEnabled: s.state == Ready,
		Summary:          s.summary,
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}

// Close releases the session's temporary audio. A summarize call in flight
// keeps its file and removes it when it returns.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.state == Summarizing {
		return
	}
	s.removeAudio(ctx)
	s.recording = audio.Recording{}
	s.state = Idle
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.state != Summarizing
}

// removeAudio must be called with s.mu held.
func (s *Session) removeAudio(ctx context.Context) {
	if err := s.recording.Remove(); err != nil {
		s.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", s.recording.Path, err)
	} else if s.recording.Temporary {
		s.logger.Debug(ctx, "Cleaned up temp file: %s", s.recording.Path)
	}
}
