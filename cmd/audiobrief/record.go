package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/audio-brief/internal/app"
	"github.com/nguyentantai21042004/audio-brief/internal/audio"
	"github.com/nguyentantai21042004/audio-brief/internal/audio/portaudio"
	"github.com/nguyentantai21042004/audio-brief/internal/config"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
	"github.com/nguyentantai21042004/audio-brief/internal/session"
	"github.com/nguyentantai21042004/audio-brief/internal/tui"
)

var logFile string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the microphone in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		// the terminal belongs to the UI, so logs go to a file
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.NewWithWriter(f, cfg.Logging.Level, cfg.Logging.Format)

		a, err := app.New(ctx, cfg, app.DefaultRemote(cfg), app.WithLogger(log))
		if err != nil {
			return err
		}

		recorder := audio.NewRecorder(portaudio.New(cfg.Audio.FramesPerBuffer), audio.RecorderConfig{
			SampleRate: cfg.Audio.SampleRate,
			Channels:   cfg.Audio.Channels,
			QueueSize:  cfg.Audio.QueueSize,
			OutputPath: cfg.Audio.RecordingPath,
			TempDir:    cfg.Paths.Temp,
		}, log)
		sess := session.New("desktop", a.Summarizer, session.Options{KeepAudio: true}, log)
		defer sess.Close(ctx)

		// desktop summaries use the persona only
		model := tui.New(ctx, recorder, sess, "")
		_, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()

		if recorder.Recording() {
			rec, err := recorder.Stop(ctx)
			if err == nil {
				if err := rec.Remove(); err != nil {
					log.Warn(ctx, "Failed to cleanup unsaved recording: %v", err)
				}
			}
		}
		return runErr
	},
}

func init() {
	recordCmd.Flags().StringVar(&logFile, "log-file", "audiobrief.log", "where to write logs while the UI is running")
}
