package sequencer

import (
	"errors"
	"testing"
)

type emission struct {
	note     uint8
	velocity uint8
	on       bool
}

func collectSend(got *[]emission) SendFunc {
	return func(note, velocity uint8, on bool) error {
		*got = append(*got, emission{note, velocity, on})
		return nil
	}
}

func playAll(t *testing.T, p *Player) {
	t.Helper()
	for tick := 0; ; tick++ {
		done, err := p.OnTick(tick)
		if err != nil {
			t.Fatalf("OnTick(%d): %v", tick, err)
		}
		if done {
			return
		}
	}
}

func TestPlayerEmitsTransitions(t *testing.T) {
	m := NewMatrix(6)
	// Pitch 60 sounds ticks 0-3, pitch 64 sounds ticks 2-5.
	for tick := 0; tick < 4; tick++ {
		m.Set(tick, 60, 100)
	}
	for tick := 2; tick < 6; tick++ {
		m.Set(tick, 64, 90)
	}

	var got []emission
	p := NewPlayer(m, collectSend(&got))
	playAll(t, p)

	want := []emission{
		{60, 100, true},
		{64, 90, true},
		{60, 0, false},
		{64, 0, false}, // cleanup pass at the end of the roll
	}
	if len(got) != len(want) {
		t.Fatalf("emissions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission %d = %v, want %v", i, got[i], want[i])
		}
	}
	if p.ActiveCount() != 0 {
		t.Errorf("ActiveCount after playback = %d, want 0", p.ActiveCount())
	}
}

func TestPlayerRetriggerOffBeforeOn(t *testing.T) {
	m := NewMatrix(3)
	m.Set(0, 60, 100)
	m.Set(1, 60, 80) // velocity change while sounding
	m.Set(2, 60, 80)

	var got []emission
	p := NewPlayer(m, collectSend(&got))
	playAll(t, p)

	want := []emission{
		{60, 100, true},
		{60, 0, false}, // retrigger: off strictly before on
		{60, 80, true},
		{60, 0, false}, // cleanup
	}
	if len(got) != len(want) {
		t.Fatalf("emissions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlayerNoStuckNotes(t *testing.T) {
	m := NewMatrix(4)
	// Held to the very last row: only the cleanup pass can release it.
	for tick := 0; tick < 4; tick++ {
		m.Set(tick, 72, 110)
	}

	var got []emission
	p := NewPlayer(m, collectSend(&got))
	playAll(t, p)

	last := got[len(got)-1]
	if last.on || last.note != 72 {
		t.Errorf("last emission = %v, want note-off 72", last)
	}
	if p.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0 immediately after completion", p.ActiveCount())
	}
}

func TestPlayerUnchangedRowsEmitNothing(t *testing.T) {
	m := NewMatrix(10)
	for tick := 0; tick < 10; tick++ {
		m.Set(tick, 60, 100)
	}

	var got []emission
	p := NewPlayer(m, collectSend(&got))
	playAll(t, p)

	// One on at tick 0, one off at cleanup; sustained ticks are silent.
	if len(got) != 2 {
		t.Errorf("emissions = %v, want exactly on+off", got)
	}
}

func TestPlayerSendErrorPropagates(t *testing.T) {
	m := NewMatrix(2)
	m.Set(0, 60, 100)

	sendErr := errors.New("port closed")
	p := NewPlayer(m, func(note, velocity uint8, on bool) error {
		return sendErr
	})
	if _, err := p.OnTick(0); !errors.Is(err, sendErr) {
		t.Errorf("OnTick error = %v, want %v", err, sendErr)
	}
	if p.Done() {
		t.Error("playback marked complete despite a transport failure")
	}
}

func TestRoundTrip(t *testing.T) {
	// Encode a known event sequence, decode it via the player, and
	// compare the on/off transitions.
	buf := &EventBuffer{}
	mat := NewMatrix(96)
	rec := NewRecorder(buf, mat, 127)

	type timed struct {
		tick int
		ev   NoteEvent
	}
	script := []timed{
		{0, NoteEvent{Note: 60, Velocity: 100, On: true}},
		{12, NoteEvent{Note: 64, Velocity: 90, On: true}},
		{48, NoteEvent{Note: 60, Velocity: 0, On: false}},
		{72, NoteEvent{Note: 64, Velocity: 0, On: false}},
	}

	for tick := 0; tick < 96; tick++ {
		for _, s := range script {
			if s.tick == tick {
				buf.Push(s.ev)
			}
		}
		rec.OnTick(tick)
	}
	if !rec.Done() {
		t.Fatal("recording did not complete")
	}

	var got []emission
	p := NewPlayer(mat, collectSend(&got))
	playAll(t, p)

	want := []emission{
		{60, 100, true},
		{64, 90, true},
		{60, 0, false},
		{64, 0, false},
	}
	if len(got) != len(want) {
		t.Fatalf("round-trip emissions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission %d = %v, want %v", i, got[i], want[i])
		}
	}
}
