// Package main is the entry point for the midi2tone CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultConvertOptions()

	rootCmd := &cobra.Command{
		Use:   "midi2tone <midi_file> [track_num] [tempo] [quantization]",
		Short: "Convert a MIDI track into tone() melody arrays",
		Long: `midi2tone converts one track of a Standard MIDI File into a monophonic
melody of frequencies and durations for a square-wave tone generator,
such as an Arduino tone() pin driving a piezo buzzer.

Examples:
  midi2tone song.mid
  midi2tone song.mid 0 500000 50
  midi2tone song.mid 1 --name alarm -o alarm.h
  midi2tone song.mid -- -1
  midi2tone song.mid --target json
  midi2tone table
  midi2tone tui
  midi2tone serve --port 8080`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.RangeArgs(1, 4),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	rootCmd.SetFlagErrorFunc(negativeArgError)

	rootCmd.Flags().IntVar(&opts.maxNotes, "max-notes", opts.maxNotes, "Maximum number of notes and rests to emit")
	rootCmd.Flags().StringVar(&opts.name, "name", "", "Array name prefix (e.g. alarm -> alarmMelody, alarmDuration)")
	rootCmd.Flags().StringVarP(&opts.target, "target", "t", opts.target, "Output target (arduino, json)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")
	rootCmd.Flags().BoolVar(&opts.detectTempo, "detect-tempo", false, "Use the file's first tempo event instead of the tempo argument")

	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}
