package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/audio-brief/internal/logger"
)

// fakeDevice replays fixed frames, then reports empty reads until stopped.
type fakeDevice struct {
	frames  [][]int16
	openErr error

	mu     sync.Mutex
	opened int
	last   *fakeStream
}

func (d *fakeDevice) Open(sampleRate, channels int) (InputStream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened++
	d.last = &fakeStream{frames: d.frames}
	return d.last, nil
}

type fakeStream struct {
	mu      sync.Mutex
	frames  [][]int16
	next    int
	started bool
	stopped bool
	closed  bool
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *fakeStream) Read() ([]int16, error) {
	s.mu.Lock()
	if s.next < len(s.frames) {
		f := s.frames[s.next]
		s.next++
		s.mu.Unlock()
		return f, nil
	}
	s.mu.Unlock()
	time.Sleep(time.Millisecond)
	return nil, nil
}

func (s *fakeStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next == len(s.frames)
}

func newTestRecorder(t *testing.T, dev InputDevice, cfg RecorderConfig) *Recorder {
	t.Helper()
	if cfg.TempDir == "" {
		cfg.TempDir = t.TempDir()
	}
	return NewRecorder(dev, cfg, logger.Discard())
}

func readWAVHeader(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if len(data) < 44 {
		t.Fatalf("wav too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("not a RIFF/WAVE file: %q", data[:12])
	}
	return data
}

func TestStartStopWithoutFrames(t *testing.T) {
	ctx := context.Background()
	r := newTestRecorder(t, &fakeDevice{}, RecorderConfig{})

	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	rec, err := r.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	readWAVHeader(t, rec.Path)
	if len(rec.Samples) != 0 {
		t.Errorf("Samples = %d, want 0", len(rec.Samples))
	}
	if !rec.Temporary {
		t.Error("recording without fixed path should be temporary")
	}
	if rec.SampleRate != 44100 || rec.Channels != 1 {
		t.Errorf("format = %d Hz / %d ch, want 44100 / 1", rec.SampleRate, rec.Channels)
	}
}

func TestCaptureKeepsArrivalOrder(t *testing.T) {
	ctx := context.Background()
	dev := &fakeDevice{frames: [][]int16{{1, 2, 3}, {4, 5}, {6}, {7, 8, 9, 10}}}
	// a queue smaller than the number of frames exercises backpressure
	r := newTestRecorder(t, dev, RecorderConfig{QueueSize: 1})

	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !dev.last.drained() {
		if time.Now().After(deadline) {
			t.Fatal("frames were not consumed")
		}
		time.Sleep(time.Millisecond)
	}

	rec, err := r.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	want := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if len(rec.Samples) != len(want) {
		t.Fatalf("Samples = %v, want %v", rec.Samples, want)
	}
	for i := range want {
		if rec.Samples[i] != want[i] {
			t.Fatalf("Samples = %v, want %v", rec.Samples, want)
		}
	}

	data := readWAVHeader(t, rec.Path)
	if got := len(data) - 44; got != len(want)*2 {
		t.Errorf("PCM payload = %d bytes, want %d", got, len(want)*2)
	}

	got := Describe(rec.Path)
	if got.SampleRate != 44100 || got.Channels != 1 {
		t.Errorf("Describe() = %d Hz / %d ch", got.SampleRate, got.Channels)
	}

	if !dev.last.stopped || !dev.last.closed {
		t.Error("stream should be stopped and closed")
	}
}

func TestStartTwice(t *testing.T) {
	ctx := context.Background()
	r := newTestRecorder(t, &fakeDevice{}, RecorderConfig{})
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer r.Stop(ctx)

	if err := r.Start(ctx); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRecording", err)
	}
	if !r.Recording() {
		t.Error("Recording() = false during capture")
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := newTestRecorder(t, &fakeDevice{}, RecorderConfig{})
	rec, err := r.Stop(context.Background())
	if !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop() error = %v, want ErrNotRecording", err)
	}
	if !rec.IsZero() {
		t.Errorf("Stop() recording = %+v, want zero", rec)
	}
}

func TestDeviceUnavailable(t *testing.T) {
	r := newTestRecorder(t, &fakeDevice{openErr: errors.New("no input device")}, RecorderConfig{})
	err := r.Start(context.Background())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Start() error = %v, want ErrDeviceUnavailable", err)
	}
	if r.Recording() {
		t.Error("Recording() = true after failed start")
	}
}

func TestFixedOutputPathIsOverwritten(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recording.wav")
	dev := &fakeDevice{frames: [][]int16{{42}}}
	r := newTestRecorder(t, dev, RecorderConfig{OutputPath: path})

	for i := 0; i < 2; i++ {
		if err := r.Start(ctx); err != nil {
			t.Fatal(err)
		}
		rec, err := r.Stop(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if rec.Path != path {
			t.Errorf("Path = %q, want %q", rec.Path, path)
		}
		if rec.Temporary {
			t.Error("fixed-path recording should not be temporary")
		}
	}
	readWAVHeader(t, path)
}

func TestLoadFromBytes(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("RIFF\x00\x00\x00\x00WAVEnot really audio")

	rec, err := LoadFromBytes(dir, payload)
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}
	if !rec.Temporary {
		t.Error("uploaded recording should be temporary")
	}
	if filepath.Dir(rec.Path) != dir {
		t.Errorf("Path = %q, want inside %q", rec.Path, dir)
	}

	got, err := os.ReadFile(rec.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("stored bytes differ from payload")
	}

	other, err := LoadFromBytes(dir, payload)
	if err != nil {
		t.Fatal(err)
	}
	if other.Path == rec.Path {
		t.Error("two uploads must not share a path")
	}

	if err := rec.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(rec.Path); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove()")
	}
	// removing twice is harmless
	if err := rec.Remove(); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestRemoveKeepsPermanentFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.wav")
	if err := WriteWAV(path, []int16{1, 2}, 8000, 1); err != nil {
		t.Fatal(err)
	}
	rec := Recording{Path: path}
	if err := rec.Remove(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("non-temporary file was removed: %v", err)
	}
}
