package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/audio-brief/internal/app"
	"github.com/nguyentantai21042004/audio-brief/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "audiobrief",
	Short: "Record or upload audio and get a Markdown summary",
	Long: `audiobrief sends recorded or uploaded audio to Gemini (or an
OpenAI-compatible service) and returns a Markdown summary.

  serve      web app with browser recording and uploads
  record     terminal recorder using the default microphone
  summarize  summarize one WAV file and print the result
  watch      summarize every file dropped into the input folder`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// bootstrap loads the config and builds the shared dependencies. A missing
// API key fails here, before any UI or network activity.
func bootstrap(ctx context.Context, opts ...app.Option) (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, app.DefaultRemote(cfg), opts...)
}
