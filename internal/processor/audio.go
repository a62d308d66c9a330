package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

// prepareAudio returns a WAV recording for path. WAV input is used in place;
// anything else is converted by ffmpeg into a temporary file.
func (p *implProcessor) prepareAudio(ctx context.Context, path string) (audio.Recording, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return audio.Describe(path), nil
	}

	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return audio.Recording{}, fmt.Errorf("create temp dir: %w", err)
	}
	out := audio.TempPath(p.cfg.Paths.Temp)

	p.logger.Info(ctx, "Converting to WAV: %s", path)

	// -vn drops any video stream; output matches the capture format.
	args := []string{
		"-i", path,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.Audio.SampleRate),
		"-ac", strconv.Itoa(p.cfg.Audio.Channels),
		"-c:a", "pcm_s16le",
		"-y",
		out,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		os.Remove(out)
		return audio.Recording{}, fmt.Errorf("%w: ffmpeg convert: %v", audio.ErrInvalidAudioFormat, err)
	}

	rec := audio.Describe(out)
	rec.Temporary = true
	p.logger.Debug(ctx, "Converted %s -> %s", path, out)
	return rec, nil
}
