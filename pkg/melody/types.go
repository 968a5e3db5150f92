// Package melody reduces timestamped MIDI note events to a monophonic
// tone sequence for square-wave generators
package melody

import (
	"errors"
	"fmt"
)

// Defaults used by the tone generator sketches
const (
	DefaultTicksPerBeat = 480
	DefaultTempo        = 500000 // microseconds per quarter note (120 BPM)
	DefaultQuantization = 50     // milliseconds
	DefaultMaxNotes     = 200
)

// Rest is the frequency emitted for silence
const Rest = 0

// ErrInvalidOptions is returned when reduction options cannot be used
var ErrInvalidOptions = errors.New("invalid melody options")

// Kind classifies a decoded MIDI message
type Kind int

const (
	KindOther Kind = iota
	KindNoteOn
	KindNoteOff
)

// String returns the message kind name
func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	default:
		return "other"
	}
}

// Event is a decoded MIDI message at an absolute tick
type Event struct {
	Tick     uint64
	Kind     Kind
	Note     uint8
	Velocity uint8
}

// IsNoteStart reports whether the event starts a sounding note
func (e Event) IsNoteStart() bool {
	return e.Kind == KindNoteOn && e.Velocity > 0
}

// IsNoteEnd reports whether the event releases a note.
// A note-on with velocity 0 counts as a note-off.
func (e Event) IsNoteEnd() bool {
	return e.Kind == KindNoteOff || (e.Kind == KindNoteOn && e.Velocity == 0)
}

// ActiveNote is a note that has started but not yet been released
type ActiveNote struct {
	Note    uint8
	StartMs float64
}

// Melody holds index-aligned frequencies (Hz, 0 = rest) and durations (ms)
type Melody struct {
	Frequencies []int `json:"melody"`
	Durations   []int `json:"durations"`
}

// Len returns the number of entries in the melody
func (m Melody) Len() int {
	return len(m.Frequencies)
}

// Options controls time conversion, quantization and truncation
type Options struct {
	TicksPerBeat uint16
	Tempo        uint32 // microseconds per quarter note
	Quantization int    // milliseconds, must be > 0
	MaxNotes     int
}

// DefaultOptions returns the options used when nothing is specified
func DefaultOptions() Options {
	return Options{
		TicksPerBeat: DefaultTicksPerBeat,
		Tempo:        DefaultTempo,
		Quantization: DefaultQuantization,
		MaxNotes:     DefaultMaxNotes,
	}
}

// Validate checks that the options can drive a reduction
func (o Options) Validate() error {
	switch {
	case o.TicksPerBeat == 0:
		return fmt.Errorf("%w: ticks per beat must be > 0", ErrInvalidOptions)
	case o.Tempo == 0:
		return fmt.Errorf("%w: tempo must be > 0", ErrInvalidOptions)
	case o.Quantization <= 0:
		return fmt.Errorf("%w: quantization must be > 0, got %d", ErrInvalidOptions, o.Quantization)
	case o.MaxNotes < 0:
		return fmt.Errorf("%w: max notes must be >= 0, got %d", ErrInvalidOptions, o.MaxNotes)
	}
	return nil
}
