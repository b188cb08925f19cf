package sequencer

// Row holds the last-known velocity per pitch at one tick (0 = silent).
type Row [NumPitches]uint8

// Matrix is the piano roll: one Row per tick. Dimensions are fixed at
// construction; the Recorder may only shrink it via Trim on early
// termination. It is a held-note roll, not a delta roll: a sounding
// pitch keeps its velocity in every row until released.
type Matrix struct {
	rows []Row
}

// NewMatrix creates an all-zero matrix with the given number of ticks.
func NewMatrix(ticks int) *Matrix {
	return &Matrix{rows: make([]Row, ticks)}
}

// Len returns the number of tick rows.
func (m *Matrix) Len() int { return len(m.rows) }

// Set writes a velocity at [tick][note]. Out-of-range indices are
// ignored so malformed external input can never write out of bounds.
func (m *Matrix) Set(tick int, note uint8, velocity uint8) {
	if tick < 0 || tick >= len(m.rows) || note >= NumPitches {
		return
	}
	m.rows[tick][note] = velocity
}

// At returns the velocity at [tick][note], 0 when out of range.
func (m *Matrix) At(tick int, note uint8) uint8 {
	if tick < 0 || tick >= len(m.rows) || note >= NumPitches {
		return 0
	}
	return m.rows[tick][note]
}

// Row returns a copy of the row at the given tick (zero row when out of
// range, which doubles as the virtual row before tick 0).
func (m *Matrix) Row(tick int) Row {
	if tick < 0 || tick >= len(m.rows) {
		return Row{}
	}
	return m.rows[tick]
}

// Carry copies the previous row into the given tick's row, so pitches
// not touched this tick sustain their value. Tick 0 starts silent.
func (m *Matrix) Carry(tick int) {
	if tick <= 0 || tick >= len(m.rows) {
		return
	}
	m.rows[tick] = m.rows[tick-1]
}

// Trim shrinks the matrix to its first n rows.
func (m *Matrix) Trim(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(m.rows) {
		m.rows = m.rows[:n]
	}
}

// Rows exposes the finished roll. The slice is shared, not copied;
// callers must treat it as read-only.
func (m *Matrix) Rows() []Row { return m.rows }

// ActiveNotes returns the pitches sounding at the given tick, ascending.
func (m *Matrix) ActiveNotes(tick int) []uint8 {
	if tick < 0 || tick >= len(m.rows) {
		return nil
	}
	var notes []uint8
	for n := 0; n < NumPitches; n++ {
		if m.rows[tick][n] > 0 {
			notes = append(notes, uint8(n))
		}
	}
	return notes
}
