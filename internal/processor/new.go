package processor

import (
	"github.com/nguyentantai21042004/audio-brief/internal/config"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/summarizer"
	"github.com/nguyentantai21042004/audio-brief/pkg/executor"
)

type implProcessor struct {
	cfg        *config.Config
	executor   executor.Executor
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

func New(cfg *config.Config, exec executor.Executor, s summarizer.Summarizer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		executor:   exec,
		summarizer: s,
		logger:     log,
	}
}
