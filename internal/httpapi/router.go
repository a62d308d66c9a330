package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/session"
)

type Options struct {
	TempDir            string
	MaxUploadBytes     int64
	DefaultInstruction string
}

// NewRouter builds the HTTP handler for the hosted variant.
func NewRouter(store *session.Store, opts Options, log logger.Logger) http.Handler {
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())

	h := NewSessionHandler(store, opts, log)

	r.GET("/", serveIndex)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		h.RegisterRoutes(api.Group("/sessions"))
	}

	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "%s %s %d %s",
			c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
