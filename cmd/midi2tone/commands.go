package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/james-see/midi2tone/pkg/api"
	"github.com/james-see/midi2tone/pkg/config"
	"github.com/james-see/midi2tone/pkg/logger"
	"github.com/james-see/midi2tone/pkg/melody"
	"github.com/james-see/midi2tone/pkg/tui"
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the MIDI note to frequency table",
		Long:  `Prints every MIDI note number with its tone frequency. Notes outside the playable range show 0 and are dropped during conversion.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NOTE", "NAME", "FREQ (Hz)")
			for n := 0; n <= 127; n++ {
				note := uint8(n)
				t.Row(strconv.Itoa(n), noteName(note), strconv.Itoa(melody.Frequency(note)))
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

// noteName returns the scientific pitch name, with middle C (60) as C4
func noteName(n uint8) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n)/12-1)
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run()
		},
	}
}

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			flush, err := logger.InitSentry(cfg.SentryDSN, cfg.Environment, version)
			if err != nil {
				logger.Warn("Sentry disabled", logger.Fields{"error": err})
			}
			defer flush()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %d...\n", cfg.Port)
			return api.StartServer(cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port (overrides PORT)")
	return cmd
}
