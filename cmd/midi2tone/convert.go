package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/james-see/midi2tone/pkg/converter"
	"github.com/james-see/midi2tone/pkg/converter/targets"
	"github.com/james-see/midi2tone/pkg/logger"
	"github.com/james-see/midi2tone/pkg/melody"
)

// errConversionFailed is returned after the failure has been reported
var errConversionFailed = errors.New("conversion failed")

type convertOptions struct {
	maxNotes    int
	name        string
	target      string
	output      string
	detectTempo bool
}

func defaultConvertOptions() *convertOptions {
	return &convertOptions{
		maxNotes: melody.DefaultMaxNotes,
		target:   targets.DefaultID,
	}
}

// negativeArgError points at "--" when pflag mistakes a negative number
// such as a track index for a shorthand flag
func negativeArgError(cmd *cobra.Command, err error) error {
	const prefix = "unknown shorthand flag: '"
	msg := err.Error()
	if strings.HasPrefix(msg, prefix) && len(msg) > len(prefix) && unicode.IsDigit(rune(msg[len(prefix)])) {
		return fmt.Errorf("%w (put negative numbers after --, e.g. %s song.mid -- -1)", err, cmd.Root().Name())
	}
	return err
}

// parseArgs maps <midi_file> [track_num] [tempo] [quantization] onto a request
func parseArgs(args []string, opts *convertOptions) (string, converter.Request, error) {
	req := converter.DefaultRequest()
	req.Options.MaxNotes = opts.maxNotes
	req.Name = opts.name
	req.DetectTempo = opts.detectTempo

	ints := make([]int, 0, 3)
	for i, name := range []string{"track_num", "tempo", "quantization"} {
		if len(args) <= i+1 {
			break
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			return "", req, fmt.Errorf("invalid %s %q: must be an integer", name, args[i+1])
		}
		ints = append(ints, n)
	}

	if len(ints) > 0 {
		req.Track = ints[0]
	}
	if len(ints) > 1 {
		if ints[1] <= 0 || ints[1] > 0xFFFFFF {
			return "", req, fmt.Errorf("invalid tempo %d: must be between 1 and %d", ints[1], 0xFFFFFF)
		}
		req.Options.Tempo = uint32(ints[1])
	}
	if len(ints) > 2 {
		req.Options.Quantization = ints[2]
	}
	if err := req.Options.Validate(); err != nil {
		return "", req, err
	}

	return args[0], req, nil
}

func runConvert(cmd *cobra.Command, args []string, opts *convertOptions) error {
	log.SetFlags(0)

	path, req, err := parseArgs(args, opts)
	if err != nil {
		return err
	}
	target, err := targets.Lookup(opts.target)
	if err != nil {
		return err
	}

	// usage is only useful for argument errors
	cmd.SilenceUsage = true

	if converter.DetectFormat(path) != converter.FormatMIDI {
		logger.Warn("Input does not have a .mid or .midi extension", logger.Fields{"file": path})
	}

	conv := converter.New(target)
	res, err := conv.ConvertFile(path, req)
	if err != nil {
		logger.Error("Error loading MIDI file", err, logger.Fields{"file": path, "track": req.Track})
		fmt.Fprintln(cmd.OutOrStdout(), "Failed to process MIDI file")
		return errConversionFailed
	}

	var buf bytes.Buffer
	if err := conv.Render(&buf, res); err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d notes to %s (%s)\n", res.Count(), opts.output, humanize.Bytes(uint64(buf.Len())))
	return nil
}
