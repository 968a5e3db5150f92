package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/midi2tone/pkg/melody"
)

func writeSong(t *testing.T) string {
	t.Helper()

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(480, midi.NoteOff(0, 69))
	tr.Add(480, midi.NoteOn(0, 71, 100))
	tr.Add(480, midi.NoteOff(0, 71))
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunConvertDefaults(t *testing.T) {
	path := writeSong(t)

	out, _, err := execute(path)
	require.NoError(t, err)

	assert.Contains(t, out, "// Generated from: "+path+"\n")
	assert.Contains(t, out, "// Track number: 0\n")
	assert.Contains(t, out, "// Tempo: 500000 microseconds per quarter note\n")
	assert.Contains(t, out, "// Quantization: 50 ms\n")
	assert.Contains(t, out, "// Number of notes: 3\n")
	assert.Contains(t, out, "const int melody[] = {\n  440, 0, 493\n};")
	assert.Contains(t, out, "const unsigned int duration[] = {\n  500, 500, 500\n};")
	assert.Contains(t, out, "const int sizeofMelody = sizeof(melody) / sizeof(melody[0]);")
}

func TestRunConvertPositionalArgs(t *testing.T) {
	out, _, err := execute(writeSong(t), "0", "1000000", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "// Tempo: 1000000 microseconds per quarter note\n")
	assert.Contains(t, out, "// Quantization: 100 ms\n")
	assert.Contains(t, out, "const unsigned int duration[] = {\n  1000, 1000, 1000\n};")
}

func TestRunConvertFlags(t *testing.T) {
	out, _, err := execute(writeSong(t), "--name", "alarm", "--max-notes", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "// Number of notes: 1\n")
	assert.Contains(t, out, "const int alarmMelody[] = {\n  440\n};")
	assert.Contains(t, out, "const int sizeofAlarm")
}

func TestRunConvertOutputFile(t *testing.T) {
	path := writeSong(t)
	output := filepath.Join(t.TempDir(), "song.json")

	out, errOut, err := execute(path, "-t", "json", "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Wrote 3 notes")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"size": 3`)
}

func TestRunConvertMissingFileArg(t *testing.T) {
	out, errOut, err := execute()
	assert.Error(t, err)
	assert.Contains(t, out+errOut, "Usage:")
}

func TestRunConvertBadArgs(t *testing.T) {
	path := writeSong(t)

	for _, args := range [][]string{
		{path, "one"},
		{path, "0", "fast"},
		{path, "0", "0"},
		{path, "0", "500000", "0"},
		{path, "--target", "wav"},
	} {
		_, _, err := execute(args...)
		assert.Error(t, err, args)
	}
}

func TestRunConvertFailure(t *testing.T) {
	out, _, err := execute(filepath.Join(t.TempDir(), "missing.mid"))
	assert.ErrorIs(t, err, errConversionFailed)
	assert.Equal(t, "Failed to process MIDI file\n", out)

	out, _, err = execute(writeSong(t), "7")
	assert.ErrorIs(t, err, errConversionFailed)
	assert.Equal(t, "Failed to process MIDI file\n", out)
}

func TestRunConvertNegativeTrack(t *testing.T) {
	path := writeSong(t)

	out, _, err := execute(path, "--", "-1")
	assert.ErrorIs(t, err, errConversionFailed)
	assert.Equal(t, "Failed to process MIDI file\n", out)

	_, _, err = execute(path, "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shorthand flag")
	assert.Contains(t, err.Error(), "midi2tone song.mid -- -1")
}

func TestRunConvertWarnsOnExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	data, err := os.ReadFile(writeSong(t))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	var logs bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&logs)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()

	out, _, err := execute(path)
	require.NoError(t, err)
	assert.Contains(t, out, "const int melody[] = {\n  440, 0, 493\n};")
	assert.Contains(t, logs.String(), "[WARN] Input does not have a .mid or .midi extension")

	logs.Reset()
	_, _, err = execute(writeSong(t))
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "[WARN]")
}

func TestParseArgs(t *testing.T) {
	opts := defaultConvertOptions()

	path, req, err := parseArgs([]string{"a.mid"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "a.mid", path)
	assert.Equal(t, 0, req.Track)
	assert.Equal(t, uint32(melody.DefaultTempo), req.Options.Tempo)
	assert.Equal(t, melody.DefaultQuantization, req.Options.Quantization)
	assert.Equal(t, melody.DefaultMaxNotes, req.Options.MaxNotes)

	_, req, err = parseArgs([]string{"a.mid", "2", "400000", "25"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, req.Track)
	assert.Equal(t, uint32(400000), req.Options.Tempo)
	assert.Equal(t, 25, req.Options.Quantization)
}

func TestTableCommand(t *testing.T) {
	out, _, err := execute("table")
	require.NoError(t, err)
	assert.Contains(t, out, "FREQ (Hz)")
	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "440")
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C-1", noteName(0))
	assert.Equal(t, "C4", noteName(60))
	assert.Equal(t, "A4", noteName(69))
	assert.Equal(t, "G9", noteName(127))
}
