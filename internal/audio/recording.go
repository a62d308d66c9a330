package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const MIMEType = "audio/wav"

// Recording describes a WAV file on local storage.
type Recording struct {
	Path       string
	SampleRate int
	Channels   int
	// Samples holds the captured buffer; nil for uploaded files.
	Samples []int16
	// Temporary files are deleted by whoever owns the recording once done.
	Temporary bool
}

func (r Recording) IsZero() bool {
	return r.Path == ""
}

// Remove deletes the backing file if it is temporary.
func (r Recording) Remove() error {
	if r.Path == "" || !r.Temporary {
		return nil
	}
	if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", r.Path, err)
	}
	return nil
}

// TempPath returns a fresh, collision-free WAV path inside dir.
func TempPath(dir string) string {
	return filepath.Join(dir, "audio-"+uuid.NewString()+".wav")
}

// LoadFromBytes stores data verbatim in a new temporary file under dir.
func LoadFromBytes(dir string, data []byte) (Recording, error) {
	return LoadFromReader(dir, bytes.NewReader(data))
}

// LoadFromReader copies r into a new temporary file under dir. The bytes
// are not validated; header fields are filled in when they can be read.
func LoadFromReader(dir string, r io.Reader) (Recording, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Recording{}, fmt.Errorf("create temp dir: %w", err)
	}

	path := TempPath(dir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return Recording{}, fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return Recording{}, fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Recording{}, fmt.Errorf("close audio file: %w", err)
	}

	rec := Describe(path)
	rec.Temporary = true
	return rec, nil
}

// Describe returns a Recording for an existing file, reading sample rate
// and channel count from the WAV header when possible.
func Describe(path string) Recording {
	rec := Recording{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return rec
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return rec
	}
	rec.SampleRate = int(dec.SampleRate)
	rec.Channels = int(dec.NumChans)
	return rec
}
