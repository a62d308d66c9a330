package summarizer

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

var (
	// ErrUpload wraps failures while sending the audio file to the service.
	ErrUpload = errors.New("upload failed")
	// ErrSummarization wraps failures of the chat request itself.
	ErrSummarization = errors.New("summarization failed")
)

// Summarizer turns a recording plus an instruction into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, rec audio.Recording, instruction string) (string, error)
}

// Remote is the generative-AI service. Implementations must not retry.
type Remote interface {
	UploadFile(ctx context.Context, path, mimeType string) (FileHandle, error)
	SendSummaryRequest(ctx context.Context, req Request) (string, error)
}

// FileHandle identifies a file stored by the remote service.
type FileHandle struct {
	Name        string
	URI         string
	DisplayName string
	MIMEType    string
}

// GenerationConfig controls sampling on the remote model.
type GenerationConfig struct {
	Temperature      float32
	TopP             float32
	TopK             float32
	MaxOutputTokens  int32
	ResponseMIMEType string
}

// Request is one single-turn conversation: the history holds a user turn
// with only File attached, and Message is sent after it.
type Request struct {
	Model             string
	Config            GenerationConfig
	SystemInstruction string
	File              FileHandle
	Message           string
}
