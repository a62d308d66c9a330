package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

var instruction string

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE.wav",
	Short: "Summarize a WAV file and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %v", audio.ErrInvalidAudioFormat, err)
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		instr := a.Config.Instruction.Default
		if cmd.Flags().Changed("instruction") {
			instr = instruction
		}

		text, err := a.Summarizer.Summarize(ctx, audio.Describe(path), instr)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&instruction, "instruction", "i", "", "custom instruction (default: config instruction)")
}
