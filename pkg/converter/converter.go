package converter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/midi2tone/pkg/melody"
)

// Format represents an input file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Check for MIDI file signature "MThd"
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	return FormatUnknown
}

// ConvertFile reads a MIDI file and converts one of its tracks
func (c *Converter) ConvertFile(path string, req Request) (*Result, error) {
	s, err := c.midi.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.convert(path, s, req)
}

// Convert decodes MIDI data and reduces the requested track to a melody.
// On any failure no partial result is returned.
func (c *Converter) Convert(source string, data []byte, req Request) (*Result, error) {
	s, err := c.midi.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.convert(source, s, req)
}

func (c *Converter) convert(source string, s *smf.SMF, req Request) (*Result, error) {
	tpb, err := c.midi.TicksPerBeat(s)
	if err != nil {
		return nil, err
	}

	events, err := c.midi.TrackEvents(s, req.Track)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	opts.TicksPerBeat = tpb
	if req.DetectTempo {
		if tempo, ok := c.midi.InitialTempo(s); ok {
			opts.Tempo = tempo
		}
	}

	m, err := melody.Reduce(events, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Source:       source,
		Name:         req.Name,
		Track:        req.Track,
		Tempo:        opts.Tempo,
		Quantization: opts.Quantization,
		TicksPerBeat: tpb,
		Melody:       m,
	}, nil
}

// Render writes a result using the converter's target
func (c *Converter) Render(w io.Writer, res *Result) error {
	if c.target == nil {
		return errors.New("no target configured")
	}
	if res == nil {
		return errors.New("nil result")
	}
	return c.target.Render(w, res)
}

// WriteFile renders a result to a file
func (c *Converter) WriteFile(res *Result, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := c.Render(f, res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
