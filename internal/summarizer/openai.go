package summarizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

const transcriptMIMEType = "text/plain"

// OpenAIOptions configures NewOpenAI.
type OpenAIOptions struct {
	// BaseURL overrides the API endpoint for compatible services.
	BaseURL            string
	TranscriptionModel string
}

// openAIRemote has no file store for audio, so UploadFile transcribes the
// file and keeps the transcript until the matching summary request.
type openAIRemote struct {
	client             *openai.Client
	transcriptionModel string

	mu          sync.Mutex
	transcripts map[string]string
}

func NewOpenAI(apiKey string, opts OpenAIOptions) Remote {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.TranscriptionModel == "" {
		opts.TranscriptionModel = openai.Whisper1
	}
	return &openAIRemote{
		client:             openai.NewClientWithConfig(cfg),
		transcriptionModel: opts.TranscriptionModel,
		transcripts:        make(map[string]string),
	}
}

func (o *openAIRemote) UploadFile(ctx context.Context, path, mimeType string) (FileHandle, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.transcriptionModel,
		FilePath: path,
	})
	if err != nil {
		if isBadRequest(err) {
			return FileHandle{}, fmt.Errorf("%w: %w", audio.ErrInvalidAudioFormat, err)
		}
		return FileHandle{}, err
	}

	id := uuid.NewString()
	o.mu.Lock()
	o.transcripts[id] = resp.Text
	o.mu.Unlock()

	return FileHandle{
		Name:        "transcripts/" + id,
		URI:         "transcript:" + id,
		DisplayName: filepath.Base(path),
		MIMEType:    transcriptMIMEType,
	}, nil
}

func (o *openAIRemote) SendSummaryRequest(ctx context.Context, req Request) (string, error) {
	id := strings.TrimPrefix(req.File.Name, "transcripts/")
	o.mu.Lock()
	transcript, ok := o.transcripts[id]
	delete(o.transcripts, id)
	o.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown file %q", req.File.Name)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: "Audio transcript:\n" + transcript},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
		Temperature: chatTemperature(req.Config.Temperature),
		TopP:        req.Config.TopP,
		MaxTokens:   int(req.Config.MaxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// chatTemperature keeps a zero temperature on the wire. The request field is
// omitempty, and an omitted temperature means the server default of 1.
func chatTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func isBadRequest(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusBadRequest
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusBadRequest
	}
	return false
}
