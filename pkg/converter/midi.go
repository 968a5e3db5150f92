package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/midi2tone/pkg/melody"
)

var (
	// ErrLoad is returned when a MIDI file cannot be read or decoded
	ErrLoad = errors.New("error loading MIDI file")
	// ErrTrackNotFound is returned for a track index outside the file.
	// It belongs to the ErrLoad failure class.
	ErrTrackNotFound = fmt.Errorf("%w: track not found", ErrLoad)
)

// MIDIConverter handles MIDI file parsing and event extraction
type MIDIConverter struct{}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{}
}

// ParseFile reads and decodes a MIDI file
func (m *MIDIConverter) ParseFile(filename string) (*smf.SMF, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return m.Parse(data)
}

// Parse decodes MIDI data
func (m *MIDIConverter) Parse(data []byte) (s *smf.SMF, err error) {
	// the smf reader can panic on truncated chunks
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %v", ErrLoad, r)
		}
	}()

	s, err = smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return s, nil
}

// TicksPerBeat returns the file's metric resolution
func (m *MIDIConverter) TicksPerBeat(s *smf.SMF) (uint16, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported time format %v", ErrLoad, s.TimeFormat)
	}
	if mt.Resolution() == 0 {
		return 0, fmt.Errorf("%w: zero ticks per quarter note", ErrLoad)
	}
	return mt.Resolution(), nil
}

// TrackEvents returns the note events of one track with absolute ticks
func (m *MIDIConverter) TrackEvents(s *smf.SMF, track int) ([]melody.Event, error) {
	if track < 0 || track >= len(s.Tracks) {
		return nil, fmt.Errorf("%w: index %d, file has %d tracks", ErrTrackNotFound, track, len(s.Tracks))
	}

	var (
		events      []melody.Event
		currentTick uint64
	)
	for _, ev := range s.Tracks[track] {
		currentTick += uint64(ev.Delta)
		events = append(events, decodeEvent(currentTick, ev.Message))
	}
	return events, nil
}

func decodeEvent(tick uint64, msg smf.Message) melody.Event {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return melody.Event{Tick: tick, Kind: melody.KindNoteOn, Note: key, Velocity: vel}
	case msg.GetNoteEnd(&ch, &key):
		// covers note-on with velocity 0
		return melody.Event{Tick: tick, Kind: melody.KindNoteOff, Note: key}
	default:
		return melody.Event{Tick: tick, Kind: melody.KindOther}
	}
}

// InitialTempo returns the first Set Tempo value in microseconds per
// quarter note, searching tracks in file order
func (m *MIDIConverter) InitialTempo(s *smf.SMF) (uint32, bool) {
	for _, track := range s.Tracks {
		for _, ev := range track {
			msg := ev.Message
			// Set Tempo meta message: FF 51 03 tt tt tt
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					return microsecondsPerBeat, true
				}
			}
		}
	}
	return 0, false
}
