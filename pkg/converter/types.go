// Package converter turns Standard MIDI Files into tone sequences and
// renders them for a target
package converter

import (
	"io"

	"github.com/james-see/midi2tone/pkg/melody"
)

// Request describes which track to convert and how
type Request struct {
	Track       int
	Options     melody.Options
	DetectTempo bool   // use the file's first Set Tempo event instead of Options.Tempo
	Name        string // array name prefix for code targets
}

// DefaultRequest returns a request for track 0 with default options
func DefaultRequest() Request {
	return Request{
		Track:   0,
		Options: melody.DefaultOptions(),
	}
}

// Result holds a converted melody and the parameters that produced it
type Result struct {
	Source       string
	Name         string
	Track        int
	Tempo        uint32
	Quantization int
	TicksPerBeat uint16
	Melody       melody.Melody
}

// Count returns the number of emitted notes and rests
func (r *Result) Count() int {
	return r.Melody.Len()
}

// Target renders a Result in a tone generator's source format
type Target interface {
	ID() string
	Name() string
	Extension() string
	ContentType() string
	Render(w io.Writer, res *Result) error
}

// Converter handles conversions for a single output target
type Converter struct {
	target Target
	midi   *MIDIConverter
}

// New creates a new Converter with the specified target
func New(target Target) *Converter {
	return &Converter{
		target: target,
		midi:   NewMIDIConverter(),
	}
}

// GetTarget returns the current target
func (c *Converter) GetTarget() Target {
	return c.target
}

// SetTarget sets the target used by Render
func (c *Converter) SetTarget(target Target) {
	c.target = target
}
