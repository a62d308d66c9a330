package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/audio-brief/internal/config"
	"github.com/nguyentantai21042004/audio-brief/internal/processor"
	"github.com/nguyentantai21042004/audio-brief/internal/watcher"
	"github.com/nguyentantai21042004/audio-brief/pkg/executor"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Summarize every audio file dropped into the input folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		cfg, log := a.Config, a.Logger

		log.Info(ctx, "========================================")
		log.Info(ctx, "Audio Brief folder watcher")
		log.Info(ctx, "========================================")
		log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
		log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

		if err := ensureDirectories(cfg); err != nil {
			return fmt.Errorf("create directories: %w", err)
		}

		exec := executor.New()
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			log.Warn(ctx, "%v; only .wav input will be processed", err)
		}
		proc := processor.New(cfg, exec, a.Summarizer, log)

		w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
		if err != nil {
			return err
		}
		defer w.Stop()

		log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
		log.Info(ctx, "Output: %s", cfg.Paths.Output)
		log.Info(ctx, "Press Ctrl+C to stop")

		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info(ctx, "Watcher stopped")
		return nil
	},
}

func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
