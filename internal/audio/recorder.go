package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/audio-brief/internal/logger"
)

type RecorderConfig struct {
	SampleRate int
	Channels   int
	// QueueSize bounds the channel between the capture and drain goroutines.
	QueueSize int
	// OutputPath, when set, is overwritten by every recording. Otherwise
	// each recording gets a unique temporary file in TempDir.
	OutputPath string
	TempDir    string
}

// Recorder captures microphone audio into WAV files. One capture may be
// active at a time.
type Recorder struct {
	device InputDevice
	cfg    RecorderConfig
	logger logger.Logger

	mu     sync.Mutex
	active *capture
}

type capture struct {
	stream   InputStream
	frames   chan []int16
	done     chan struct{}
	result   chan []int16
	producer sync.WaitGroup
	readErr  error
}

func NewRecorder(device InputDevice, cfg RecorderConfig, log logger.Logger) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Recorder{
		device: device,
		cfg:    cfg,
		logger: log,
	}
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Start opens the input device and begins buffering frames.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return ErrAlreadyRecording
	}

	stream, err := r.device.Open(r.cfg.SampleRate, r.cfg.Channels)
	if err != nil {
		if errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: start stream: %v", ErrDeviceUnavailable, err)
	}

	c := &capture{
		stream: stream,
		frames: make(chan []int16, r.cfg.QueueSize),
		done:   make(chan struct{}),
		result: make(chan []int16, 1),
	}
	c.producer.Add(1)
	go c.produce()
	go c.consume()

	r.active = c
	r.logger.Info(ctx, "Recording started (%d Hz, %d channel(s))", r.cfg.SampleRate, r.cfg.Channels)
	return nil
}

// Stop ends the capture, joins both goroutines and writes the WAV file.
func (r *Recorder) Stop(ctx context.Context) (Recording, error) {
	r.mu.Lock()
	c := r.active
	r.active = nil
	r.mu.Unlock()

	if c == nil {
		return Recording{}, ErrNotRecording
	}

	close(c.done)
	c.producer.Wait()
	close(c.frames)
	samples := <-c.result

	if err := c.stream.Stop(); err != nil {
		r.logger.Warn(ctx, "Failed to stop input stream: %v", err)
	}
	if err := c.stream.Close(); err != nil {
		r.logger.Warn(ctx, "Failed to close input stream: %v", err)
	}
	if c.readErr != nil {
		r.logger.Warn(ctx, "Capture ended early: %v", c.readErr)
	}

	path, temporary := r.outputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Recording{}, fmt.Errorf("create recording dir: %w", err)
	}
	if err := WriteWAV(path, samples, r.cfg.SampleRate, r.cfg.Channels); err != nil {
		return Recording{}, err
	}

	r.logger.Info(ctx, "Recording saved: %s (%d samples)", path, len(samples))
	return Recording{
		Path:       path,
		SampleRate: r.cfg.SampleRate,
		Channels:   r.cfg.Channels,
		Samples:    samples,
		Temporary:  temporary,
	}, nil
}

func (r *Recorder) outputPath() (string, bool) {
	if r.cfg.OutputPath != "" {
		return r.cfg.OutputPath, false
	}
	return TempPath(r.cfg.TempDir), true
}

func (c *capture) produce() {
	defer c.producer.Done()
	for {
		select {
		case <-c.done:
			return
		default:
		}

		buf, err := c.stream.Read()
		if err != nil {
			c.readErr = err
			return
		}
		if len(buf) == 0 {
			continue
		}

		// consume drains until the channel is closed, so this cannot block
		// past Stop.
		c.frames <- buf
	}
}

func (c *capture) consume() {
	var samples []int16
	for frame := range c.frames {
		samples = append(samples, frame...)
	}
	c.result <- samples
}
