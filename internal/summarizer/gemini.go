package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

type geminiRemote struct {
	client *genai.Client
}

// NewGemini creates a Remote backed by the Gemini API. It performs no
// network calls.
func NewGemini(ctx context.Context, apiKey string) (Remote, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &geminiRemote{client: client}, nil
}

func (g *geminiRemote) UploadFile(ctx context.Context, path, mimeType string) (FileHandle, error) {
	file, err := g.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(path),
	})
	if err != nil {
		if isRejectedPayload(err) {
			return FileHandle{}, fmt.Errorf("%w: %w", audio.ErrInvalidAudioFormat, err)
		}
		return FileHandle{}, err
	}

	handle := FileHandle{
		Name:        file.Name,
		URI:         file.URI,
		DisplayName: file.DisplayName,
		MIMEType:    file.MIMEType,
	}
	if handle.MIMEType == "" {
		handle.MIMEType = mimeType
	}
	return handle, nil
}

func (g *geminiRemote) SendSummaryRequest(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(req.Config.Temperature),
		TopP:              genai.Ptr(req.Config.TopP),
		TopK:              genai.Ptr(req.Config.TopK),
		MaxOutputTokens:   req.Config.MaxOutputTokens,
		ResponseMIMEType:  req.Config.ResponseMIMEType,
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}

	history := []*genai.Content{
		genai.NewContentFromURI(req.File.URI, req.File.MIMEType, genai.RoleUser),
	}

	chat, err := g.client.Chats.Create(ctx, req.Model, config, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	result, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// isRejectedPayload reports whether the service refused the file itself
// rather than failing in transport.
func isRejectedPayload(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusBadRequest || apiErr.Status == "INVALID_ARGUMENT"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusBadRequest || apiErrPtr.Status == "INVALID_ARGUMENT"
	}
	return false
}
