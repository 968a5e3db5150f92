package converter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/midi2tone/pkg/melody"
)

// buildMIDI writes an SMF with the given resolution and tracks
func buildMIDI(t *testing.T, resolution uint16, tracks ...smf.Track) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	for _, tr := range tracks {
		tr.Close(0)
		require.NoError(t, s.Add(tr))
	}

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// melodyTrack plays A4 for a quarter, rests a quarter, then plays B4
func melodyTrack() smf.Track {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(480, midi.NoteOff(0, 69))
	tr.Add(480, midi.NoteOn(0, 71, 100))
	tr.Add(480, midi.NoteOn(0, 71, 0))
	return tr
}

func tempoTrack(microsecondsPerBeat uint32) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	return tr
}

// mockTarget implements Target for testing
type mockTarget struct{}

func (m *mockTarget) ID() string          { return "mock" }
func (m *mockTarget) Name() string        { return "Mock Target" }
func (m *mockTarget) Extension() string   { return ".txt" }
func (m *mockTarget) ContentType() string { return "text/plain" }
func (m *mockTarget) Render(w io.Writer, res *Result) error {
	_, err := io.WriteString(w, res.Source)
	return err
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"test.mid", FormatMIDI},
		{"test.MIDI", FormatMIDI},
		{"test.smf", FormatUnknown},
		{"test.txt", FormatUnknown},
		{"test", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"Short data", []byte{0x00, 0x01}, FormatUnknown},
		{"Other data", []byte("RIFF...."), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConverterNew(t *testing.T) {
	target := &mockTarget{}
	conv := New(target)

	if conv == nil {
		t.Fatal("New() returned nil")
	}
	if conv.GetTarget() != target {
		t.Error("GetTarget() did not return the expected target")
	}
}

func TestConverterSetTarget(t *testing.T) {
	target1 := &mockTarget{}
	target2 := &mockTarget{}

	conv := New(target1)
	conv.SetTarget(target2)
	if conv.GetTarget() != target2 {
		t.Error("GetTarget() should return target2 after SetTarget")
	}
}

func TestConvert(t *testing.T) {
	data := buildMIDI(t, 480, melodyTrack())

	res, err := New(&mockTarget{}).Convert("song.mid", data, DefaultRequest())
	require.NoError(t, err)

	assert.Equal(t, "song.mid", res.Source)
	assert.Equal(t, uint16(480), res.TicksPerBeat)
	assert.Equal(t, uint32(melody.DefaultTempo), res.Tempo)
	assert.Equal(t, melody.DefaultQuantization, res.Quantization)
	assert.Equal(t, []int{440, 0, 493}, res.Melody.Frequencies)
	assert.Equal(t, []int{500, 500, 500}, res.Melody.Durations)
	assert.Equal(t, 3, res.Count())
}

func TestConvertUsesFileResolution(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(96, midi.NoteOff(0, 69))

	res, err := New(&mockTarget{}).Convert("", buildMIDI(t, 96, tr), DefaultRequest())
	require.NoError(t, err)
	assert.Equal(t, uint16(96), res.TicksPerBeat)
	assert.Equal(t, []int{500}, res.Melody.Durations)
}

func TestConvertSelectsTrack(t *testing.T) {
	var bass smf.Track
	bass.Add(0, midi.NoteOn(1, 45, 100))
	bass.Add(960, midi.NoteOff(1, 45))

	data := buildMIDI(t, 480, melodyTrack(), bass)
	req := DefaultRequest()
	req.Track = 1

	res, err := New(&mockTarget{}).Convert("", data, req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Track)
	assert.Equal(t, []int{110}, res.Melody.Frequencies)
	assert.Equal(t, []int{1000}, res.Melody.Durations)
}

func TestConvertTrackOutOfRange(t *testing.T) {
	data := buildMIDI(t, 480, melodyTrack())

	for _, track := range []int{1, 5, -1} {
		req := DefaultRequest()
		req.Track = track

		res, err := New(&mockTarget{}).Convert("", data, req)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrTrackNotFound)
		assert.ErrorIs(t, err, ErrLoad)
	}
}

func TestConvertMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not a midi file at all")},
		{"truncated header", []byte("MThd\x00\x00\x00\x06\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(&mockTarget{}).Convert("", tt.data, DefaultRequest())
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

func TestConvertInvalidOptions(t *testing.T) {
	req := DefaultRequest()
	req.Options.Quantization = 0

	res, err := New(&mockTarget{}).Convert("", buildMIDI(t, 480, melodyTrack()), req)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, melody.ErrInvalidOptions)
}

func TestConvertDetectTempo(t *testing.T) {
	// tempo lives in a conductor track, notes in track 1
	data := buildMIDI(t, 480, tempoTrack(1000000), melodyTrack())
	req := DefaultRequest()
	req.Track = 1

	res, err := New(&mockTarget{}).Convert("", data, req)
	require.NoError(t, err)
	assert.Equal(t, []int{500, 500, 500}, res.Melody.Durations)

	req.DetectTempo = true
	res, err = New(&mockTarget{}).Convert("", data, req)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000000), res.Tempo)
	assert.Equal(t, []int{1000, 1000, 1000}, res.Melody.Durations)
}

func TestConvertDetectTempoWithoutTempoEvent(t *testing.T) {
	req := DefaultRequest()
	req.DetectTempo = true
	req.Options.Tempo = 250000

	res, err := New(&mockTarget{}).Convert("", buildMIDI(t, 480, melodyTrack()), req)
	require.NoError(t, err)
	assert.Equal(t, uint32(250000), res.Tempo)
	assert.Equal(t, []int{250, 250, 250}, res.Melody.Durations)
}

func TestConvertIsDeterministic(t *testing.T) {
	data := buildMIDI(t, 480, melodyTrack())
	conv := New(&mockTarget{})

	first, err := conv.Convert("a.mid", data, DefaultRequest())
	require.NoError(t, err)
	second, err := conv.Convert("a.mid", data, DefaultRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mid")
	require.NoError(t, os.WriteFile(path, buildMIDI(t, 480, melodyTrack()), 0644))

	conv := New(&mockTarget{})
	res, err := conv.ConvertFile(path, DefaultRequest())
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)

	_, err = conv.ConvertFile(filepath.Join(dir, "missing.mid"), DefaultRequest())
	assert.ErrorIs(t, err, ErrLoad)
}

func TestConvertFileMatchesConvert(t *testing.T) {
	data := buildMIDI(t, 480, melodyTrack())
	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, os.WriteFile(path, data, 0644))

	conv := New(&mockTarget{})
	fromFile, err := conv.ConvertFile(path, DefaultRequest())
	require.NoError(t, err)
	fromData, err := conv.Convert(path, data, DefaultRequest())
	require.NoError(t, err)
	assert.Equal(t, fromData, fromFile)

	garbage := filepath.Join(t.TempDir(), "bad.mid")
	require.NoError(t, os.WriteFile(garbage, []byte("not a midi file"), 0644))
	res, err := conv.ConvertFile(garbage, DefaultRequest())
	assert.ErrorIs(t, err, ErrLoad)
	assert.Nil(t, res)
}

func TestRender(t *testing.T) {
	conv := New(&mockTarget{})

	var buf bytes.Buffer
	require.NoError(t, conv.Render(&buf, &Result{Source: "x.mid"}))
	assert.Equal(t, "x.mid", buf.String())

	assert.Error(t, conv.Render(&buf, nil))
	assert.Error(t, New(nil).Render(&buf, &Result{}))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	conv := New(&mockTarget{})

	require.NoError(t, conv.WriteFile(&Result{Source: "song.mid"}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "song.mid"))
}
