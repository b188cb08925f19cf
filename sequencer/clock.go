package sequencer

import "time"

// Clock converts wall-clock elapsed time into discrete musical ticks.
// Tick duration is 60/(bpm*ppq) seconds, computed once at construction;
// tempo changes mid-session are not supported.
type Clock struct {
	bpm     float64
	ppq     int
	tickDur time.Duration
	start   time.Time
	tick    int // last delivered tick, -1 until the first Advance after Reset

	now func() time.Time // injectable for tests
}

// NewClock creates a clock for the given tempo and resolution.
func NewClock(bpm float64, ppq int) (*Clock, error) {
	if bpm <= 0 {
		return nil, &ConfigError{Field: "bpm", Value: bpm, Reason: "must be positive"}
	}
	if ppq <= 0 {
		return nil, &ConfigError{Field: "ppq", Value: ppq, Reason: "must be positive"}
	}
	c := &Clock{
		bpm:     bpm,
		ppq:     ppq,
		tickDur: time.Duration(float64(time.Minute) / (bpm * float64(ppq))),
		now:     time.Now,
	}
	c.Reset()
	return c, nil
}

// Reset rebinds the reference start time to now. Tick 0 fires on the
// first Advance after a reset.
func (c *Clock) Reset() {
	c.start = c.now()
	c.tick = -1
}

// Advance reports whether a new tick boundary has been crossed, and if
// so returns it. It delivers at most one tick per call so ticks are
// strictly increasing with no gaps, even if the polling loop stalls:
// late ticks fire back-to-back on successive calls. It never blocks and
// is safe to busy-poll.
func (c *Clock) Advance() (int, bool) {
	next := c.tick + 1
	if c.now().Sub(c.start) >= time.Duration(next)*c.tickDur {
		c.tick = next
		return next, true
	}
	return 0, false
}

// Tick returns the last delivered tick index (-1 before the first tick).
func (c *Clock) Tick() int { return c.tick }

// TickDuration returns the duration of one tick.
func (c *Clock) TickDuration() time.Duration { return c.tickDur }

// BPM returns the tempo the clock was built with.
func (c *Clock) BPM() float64 { return c.bpm }

// PPQ returns the resolution the clock was built with.
func (c *Clock) PPQ() int { return c.ppq }
