package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/session"
	"github.com/nguyentantai21042004/audio-brief/internal/summarizer"
)

const audioSavedMessage = "Audio file has been processed and saved successfully."

type SessionHandler struct {
	store  *session.Store
	opts   Options
	logger logger.Logger
}

func NewSessionHandler(store *session.Store, opts Options, log logger.Logger) *SessionHandler {
	return &SessionHandler{store: store, opts: opts, logger: log}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.createSession)
	r.GET("/:id", h.getSession)
	r.DELETE("/:id", h.deleteSession)
	r.POST("/:id/audio", h.uploadAudio)
	r.POST("/:id/summarize", h.summarize)
}

type sessionResponse struct {
	ID               string `json:"id"`
	State            string `json:"state"`
	HasAudio         bool   `json:"has_audio"`
	SummarizeEnabled bool   `json:"summarize_enabled"`
	Summary          string `json:"summary,omitempty"`
	Error            string `json:"error,omitempty"`
	Instruction      string `json:"instruction,omitempty"`
	Message          string `json:"message,omitempty"`
}

func toSessionResponse(v session.View) sessionResponse {
	return sessionResponse{
		ID:               v.ID,
		State:            v.State.String(),
		HasAudio:         v.HasAudio,
		SummarizeEnabled: v.SummarizeEnabled,
		Summary:          v.Summary,
		Error:            v.Error,
	}
}

func (h *SessionHandler) createSession(c *gin.Context) {
	sess := h.store.Create()
	resp := toSessionResponse(sess.View())
	resp.Instruction = h.opts.DefaultInstruction
	c.JSON(http.StatusCreated, resp)
}

func (h *SessionHandler) getSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess.View()))
}

func (h *SessionHandler) deleteSession(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) uploadAudio(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}
	header, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too_large", "message": "audio file is too large"})
			return
		}
		validationError(c, "audio file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	rec, err := audio.LoadFromReader(h.opts.TempDir, file)
	if err != nil {
		h.handleError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := sess.SetRecording(ctx, rec); err != nil {
		if removeErr := rec.Remove(); removeErr != nil {
			h.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", rec.Path, removeErr)
		}
		h.handleError(c, err)
		return
	}

	h.logger.Info(ctx, "Session %s: stored %s (%s, %d bytes)", sess.ID(), rec.Path, header.Filename, header.Size)
	resp := toSessionResponse(sess.View())
	resp.Message = audioSavedMessage
	c.JSON(http.StatusOK, resp)
}

type summarizePayload struct {
	Instruction string `json:"instruction"`
}

func (h *SessionHandler) summarize(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var payload summarizePayload
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			validationError(c, "invalid JSON payload")
			return
		}
	}
	instruction := payload.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = h.opts.DefaultInstruction
	}

	text, err := sess.Summarize(c.Request.Context(), instruction)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := toSessionResponse(sess.View())
	resp.Summary = text
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, session.ErrMissingInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_input", "message": "Please record or upload an audio file first."})
	case errors.Is(err, session.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "busy", "message": err.Error()})
	case errors.Is(err, audio.ErrInvalidAudioFormat):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_audio_format", "message": err.Error()})
	case errors.Is(err, summarizer.ErrUpload):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload_failed", "message": err.Error()})
	case errors.Is(err, summarizer.ErrSummarization):
		c.JSON(http.StatusBadGateway, gin.H{"error": "summarization_failed", "message": err.Error()})
	default:
		h.logger.Error(c.Request.Context(), "request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func validationError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": msg})
}
