package sequencer

// NumPitches is the width of a piano roll row (MIDI note range).
const NumPitches = 128

// NoteEvent is a single note-on or note-off received from the transport.
// It carries no timestamp: events are quantized to the tick on which the
// Recorder drains them, so timing follows the session clock rather than
// the transport callback.
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	On       bool
}
