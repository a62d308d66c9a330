package summarizer

import (
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
)

type Options struct {
	Model           string
	MaxOutputTokens int32
	// MaxConcurrent bounds in-flight requests across all callers.
	MaxConcurrent int
}

type implSummarizer struct {
	remote Remote
	opts   Options
	sem    *semaphore
	logger logger.Logger
}

// New creates a Summarizer on top of remote.
func New(remote Remote, opts Options, log logger.Logger) Summarizer {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 8192
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	return &implSummarizer{
		remote: remote,
		opts:   opts,
		sem:    newSemaphore(opts.MaxConcurrent),
		logger: log,
	}
}
