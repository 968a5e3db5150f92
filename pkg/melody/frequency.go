package melody

import "math"

// Audible range a piezo or tone() pin can reasonably reproduce (exclusive)
const (
	MinFrequency = 31
	MaxFrequency = 5000
)

// Frequency maps a MIDI note number to an integer frequency in Hz.
// Notes outside (MinFrequency, MaxFrequency) map to 0 and are dropped
// by Reduce rather than turned into rests.
func Frequency(note uint8) int {
	freq := 440.0 * math.Pow(2, (float64(note)-69)/12)
	if freq > MinFrequency && freq < MaxFrequency {
		return int(freq)
	}
	return 0
}

// TicksToMillis converts an absolute tick position to milliseconds at a
// constant tempo
func TicksToMillis(tick uint64, ticksPerBeat uint16, tempo uint32) float64 {
	scale := float64(tempo) * 1e-6 / float64(ticksPerBeat)
	return float64(tick) * scale * 1000
}

// Quantize rounds ms to the nearest multiple of step (ties to even) and
// never returns less than one step
func Quantize(ms float64, step int) int {
	q := int(math.RoundToEven(ms/float64(step))) * step
	return max(step, q)
}
