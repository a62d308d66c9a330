package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

// Preamble is the persona every system instruction starts with.
const Preamble = "You are a world-class summarizer. Create a summary based on the content below. Output in nicely markdown syntax with bullet points if appropriated."

// TriggerMessage is sent after the audio turn to ask for the summary.
const TriggerMessage = "Please provide a summary of the audio content."

// SystemInstruction joins the persona preamble with the user's instruction.
func SystemInstruction(instruction string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return Preamble
	}
	return Preamble + "  " + instruction
}

// DefaultGenerationConfig keeps output as deterministic as the model allows.
func DefaultGenerationConfig(maxOutputTokens int32) GenerationConfig {
	return GenerationConfig{
		Temperature:      0,
		TopP:             0.95,
		TopK:             40,
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "text/plain",
	}
}

// Summarize uploads the recording and asks the model for a summary. There
// is exactly one attempt at each step.
func (s *implSummarizer) Summarize(ctx context.Context, rec audio.Recording, instruction string) (string, error) {
	if rec.IsZero() {
		return "", fmt.Errorf("%w: no audio file", ErrUpload)
	}

	if err := s.sem.acquire(ctx); err != nil {
		return "", err
	}
	defer s.sem.release()

	startTime := time.Now()
	s.logger.Info(ctx, "Uploading audio: %s", rec.Path)

	file, err := s.remote.UploadFile(ctx, rec.Path, audio.MIMEType)
	if err != nil {
		return "", wrapErr(ErrUpload, err)
	}
	s.logger.Info(ctx, "Uploaded file '%s' as: %s", file.DisplayName, file.URI)

	req := Request{
		Model:             s.opts.Model,
		Config:            DefaultGenerationConfig(s.opts.MaxOutputTokens),
		SystemInstruction: SystemInstruction(instruction),
		File:              file,
		Message:           TriggerMessage,
	}

	text, err := s.remote.SendSummaryRequest(ctx, req)
	if err != nil {
		return "", wrapErr(ErrSummarization, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrSummarization)
	}

	s.logger.Info(ctx, "Summary generated in %s (%d chars)", time.Since(startTime).Round(time.Millisecond), len(text))
	return text, nil
}

func wrapErr(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
