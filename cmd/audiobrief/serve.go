package main

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/audio-brief/internal/httpapi"
	"github.com/nguyentantai21042004/audio-brief/internal/server"
	"github.com/nguyentantai21042004/audio-brief/internal/session"
)

const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web app",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		cfg, log := a.Config, a.Logger

		if !strings.EqualFold(cfg.Logging.Level, "debug") {
			gin.SetMode(gin.ReleaseMode)
		}

		store := session.NewStore(a.Summarizer, session.Options{}, log)
		janitorDone := make(chan struct{})
		go func() {
			defer close(janitorDone)
			store.Run(ctx, cfg.Server.SessionTTL, sweepInterval)
		}()

		handler := httpapi.NewRouter(store, httpapi.Options{
			TempDir:            cfg.Paths.Temp,
			MaxUploadBytes:     cfg.MaxUploadBytes(),
			DefaultInstruction: cfg.Instruction.Default,
		}, log)

		log.Info(ctx, "Provider: %s, model: %s, session TTL: %s, upload limit: %d MB",
			cfg.Provider, cfg.Model(), cfg.Server.SessionTTL, cfg.Server.MaxUploadMB)

		err = server.New(cfg.Server, handler, log).Run(ctx)
		stop()
		<-janitorDone
		log.Info(ctx, "Server stopped")
		return err
	},
}
