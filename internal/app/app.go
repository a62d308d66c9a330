package app

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/audio-brief/internal/config"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/summarizer"
)

// RemoteFactory builds the remote service client from an API key.
type RemoteFactory func(ctx context.Context, apiKey string) (summarizer.Remote, error)

// App holds the dependencies shared by every front-end.
type App struct {
	Config     *config.Config
	Logger     logger.Logger
	Summarizer summarizer.Summarizer
}

// DefaultRemote returns the client factory for cfg.Provider.
func DefaultRemote(cfg *config.Config) RemoteFactory {
	if cfg.Provider == config.ProviderOpenAI {
		return func(ctx context.Context, apiKey string) (summarizer.Remote, error) {
			return summarizer.NewOpenAI(apiKey, summarizer.OpenAIOptions{
				BaseURL:            cfg.OpenAI.BaseURL,
				TranscriptionModel: cfg.OpenAI.TranscriptionModel,
			}), nil
		}
	}
	return summarizer.NewGemini
}

type Option func(*App)

// WithLogger replaces the stdout logger built from cfg.Logging.
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.Logger = log }
}

// New resolves the credential first, so a missing key fails with
// config.ErrConfiguration before any client is built or UI is shown.
func New(ctx context.Context, cfg *config.Config, newRemote RemoteFactory, opts ...Option) (*App, error) {
	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	remote, err := newRemote(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("init remote: %w", err)
	}

	sum := summarizer.New(remote, summarizer.Options{
		Model:           cfg.Model(),
		MaxOutputTokens: cfg.MaxOutputTokens(),
		MaxConcurrent:   cfg.Performance.MaxConcurrent,
	}, a.Logger)

	a.Summarizer = sum
	return a, nil
}
