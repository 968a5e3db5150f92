package melody

// reducer carries the state of a single forward pass over track events
type reducer struct {
	opts         Options
	active       []ActiveNote
	lastNoteTime float64
	out          Melody
}

// Reduce turns time-ordered events into a monophonic melody.
//
// A note-off releases the first active note with the same number. Notes
// whose frequency is out of range are dropped without moving the
// last-note cursor, so the gap they leave is covered by the rest emitted
// before the next valid note. Notes that are never released are not
// emitted. The result is truncated to opts.MaxNotes entries.
func Reduce(events []Event, opts Options) (Melody, error) {
	if err := opts.Validate(); err != nil {
		return Melody{}, err
	}

	r := &reducer{
		opts: opts,
		out: Melody{
			Frequencies: make([]int, 0, len(events)/2),
			Durations:   make([]int, 0, len(events)/2),
		},
	}

	for _, ev := range events {
		now := TicksToMillis(ev.Tick, opts.TicksPerBeat, opts.Tempo)
		switch {
		case ev.IsNoteStart():
			r.active = append(r.active, ActiveNote{Note: ev.Note, StartMs: now})
		case ev.IsNoteEnd():
			r.release(ev.Note, now)
		}
	}

	r.truncate()
	return r.out, nil
}

func (r *reducer) release(note uint8, now float64) {
	idx := r.find(note)
	if idx < 0 {
		return
	}
	started := r.active[idx]
	step := r.opts.Quantization

	duration := Quantize(now-started.StartMs, step)
	if freq := Frequency(started.Note); freq > 0 {
		if started.StartMs > r.lastNoteTime {
			r.append(Rest, Quantize(started.StartMs-r.lastNoteTime, step))
		}
		r.append(freq, duration)
		// cursor follows the note-off, not start+quantized duration
		r.lastNoteTime = now
	}

	r.active = append(r.active[:idx], r.active[idx+1:]...)
}

// find returns the index of the earliest active entry for note, or -1
func (r *reducer) find(note uint8) int {
	for i, a := range r.active {
		if a.Note == note {
			return i
		}
	}
	return -1
}

func (r *reducer) append(freq, duration int) {
	r.out.Frequencies = append(r.out.Frequencies, freq)
	r.out.Durations = append(r.out.Durations, duration)
}

func (r *reducer) truncate() {
	if n := r.opts.MaxNotes; r.out.Len() > n {
		r.out.Frequencies = r.out.Frequencies[:n]
		r.out.Durations = r.out.Durations[:n]
	}
}
