package sequencer

// Recorder drains the event buffer once per clock tick and writes
// incoming notes into the matrix at the current tick row. It terminates
// either when the end-of-sequence note arrives or when the matrix is
// full, whichever comes first.
type Recorder struct {
	buf     *EventBuffer
	mat     *Matrix
	endNote uint8

	recorded int
	sentinel bool
	done     bool
}

// NewRecorder creates a recorder writing into mat. A note-on for
// endNote ends the recording early.
func NewRecorder(buf *EventBuffer, mat *Matrix, endNote uint8) *Recorder {
	return &Recorder{buf: buf, mat: mat, endNote: endNote}
}

// OnTick processes one clock tick and reports whether the recording is
// complete. The sentinel wins over bar-count termination on the same
// tick, and discards the rest of its batch: the matrix is trimmed to
// the rows before the sentinel tick.
func (r *Recorder) OnTick(tick int) bool {
	if r.done {
		return true
	}
	if tick >= r.mat.Len() {
		r.done = true
		return true
	}

	r.mat.Carry(tick)

	for _, ev := range r.buf.Drain() {
		if ev.On && ev.Note == r.endNote {
			r.mat.Trim(tick)
			r.sentinel = true
			r.done = true
			return true
		}
		// Malformed input from an uncontrolled source, not an error.
		if ev.Note >= NumPitches || ev.Velocity > 127 {
			continue
		}
		vel := ev.Velocity
		if !ev.On {
			vel = 0
		}
		r.mat.Set(tick, ev.Note, vel)
		r.recorded++
	}

	if tick+1 == r.mat.Len() {
		r.done = true
		return true
	}
	return false
}

// Done reports whether the recording has terminated.
func (r *Recorder) Done() bool { return r.done }

// EndedBySentinel reports whether the end-of-sequence note terminated
// the recording.
func (r *Recorder) EndedBySentinel() bool { return r.sentinel }

// Recorded returns how many note events were written into the matrix.
func (r *Recorder) Recorded() int { return r.recorded }
