package sequencer

// SendFunc delivers one note message to the MIDI transport.
type SendFunc func(note, velocity uint8, on bool) error

// Player walks a matrix tick by tick and emits the note-on/note-off
// transitions between successive rows. It never mutates the matrix.
type Player struct {
	mat  *Matrix
	send SendFunc

	sounding [NumPitches]bool
	done     bool
}

// NewPlayer creates a player that replays mat through send.
func NewPlayer(mat *Matrix, send SendFunc) *Player {
	return &Player{mat: mat, send: send}
}

// OnTick emits the transitions for one tick and reports completion.
// Past the last row it sends note-offs for every pitch still sounding
// so no note is left stuck, then completes. A transport error stops the
// tick immediately and is returned; retrying is the caller's decision.
func (p *Player) OnTick(tick int) (bool, error) {
	if p.done {
		return true, nil
	}
	if tick >= p.mat.Len() {
		for n := 0; n < NumPitches; n++ {
			if p.sounding[n] {
				if err := p.send(uint8(n), 0, false); err != nil {
					return false, err
				}
				p.sounding[n] = false
			}
		}
		p.done = true
		return true, nil
	}

	row := p.mat.Row(tick)
	prev := p.mat.Row(tick - 1) // zero row at tick 0

	for n := 0; n < NumPitches; n++ {
		cur, old := row[n], prev[n]
		switch {
		case cur == old:
		case old == 0:
			if err := p.send(uint8(n), cur, true); err != nil {
				return false, err
			}
			p.sounding[n] = true
		case cur == 0:
			if err := p.send(uint8(n), 0, false); err != nil {
				return false, err
			}
			p.sounding[n] = false
		default:
			// Retrigger: off strictly before on for the same pitch.
			if err := p.send(uint8(n), 0, false); err != nil {
				return false, err
			}
			if err := p.send(uint8(n), cur, true); err != nil {
				return false, err
			}
			p.sounding[n] = true
		}
	}
	return false, nil
}

// Done reports whether playback has terminated.
func (p *Player) Done() bool { return p.done }

// ActiveCount returns how many pitches are currently sounding.
func (p *Player) ActiveCount() int {
	count := 0
	for _, on := range p.sounding {
		if on {
			count++
		}
	}
	return count
}
