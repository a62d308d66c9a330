// Package portaudio captures microphone input through the PortAudio C
// library. It requires cgo and libportaudio at build time.
package portaudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

// Device opens the system default input.
type Device struct {
	framesPerBuffer int
}

func New(framesPerBuffer int) *Device {
	if framesPerBuffer <= 0 {
		framesPerBuffer = 1024
	}
	return &Device{framesPerBuffer: framesPerBuffer}
}

func (d *Device) Open(sampleRate, channels int) (audio.InputStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", audio.ErrDeviceUnavailable, err)
	}

	if _, err := portaudio.DefaultInputDevice(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", audio.ErrDeviceUnavailable, err)
	}

	buf := make([]int16, d.framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), d.framesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: open stream: %v", audio.ErrDeviceUnavailable, err)
	}

	return &inputStream{stream: stream, buf: buf}, nil
}

type inputStream struct {
	stream *portaudio.Stream
	buf    []int16
}

func (s *inputStream) Start() error {
	return s.stream.Start()
}

// Read blocks until one buffer is filled. Overflows are not fatal: the
// buffer still holds the samples that were captured.
func (s *inputStream) Read() ([]int16, error) {
	if err := s.stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return nil, err
	}
	out := make([]int16, len(s.buf))
	copy(out, s.buf)
	return out, nil
}

func (s *inputStream) Stop() error {
	return s.stream.Stop()
}

func (s *inputStream) Close() error {
	err := s.stream.Close()
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	return err
}
