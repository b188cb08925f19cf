package sequencer

import (
	"go.uber.org/zap"
)

// State identifies which per-tick handler the session dispatches to.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateRecordingComplete
	StatePlaying
	StatePlaybackComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRecording:
		return "Recording"
	case StateRecordingComplete:
		return "RecordingComplete"
	case StatePlaying:
		return "Playing"
	case StatePlaybackComplete:
		return "PlaybackComplete"
	}
	return "Unknown"
}

// Transport is the external MIDI collaborator: it delivers inbound note
// messages on its own thread via the registered callback, and hands out
// a synchronous send function for outbound messages.
type Transport interface {
	OpenInput(cb func(note, velocity uint8, on bool)) error
	OpenOutput() (func(note, velocity uint8, on bool) error, error)
}

// Config holds the constructor-time session parameters. They are
// immutable for the session's lifetime.
type Config struct {
	BPM         float64
	PPQ         int
	Bars        int
	BeatsPerBar int
	EndSeqNote  uint8
}

// DefaultConfig returns the standard live capture setup: 120 BPM, 24
// PPQ, two bars of 4/4, with the highest MIDI note ending the take.
func DefaultConfig() Config {
	return Config{BPM: 120, PPQ: 24, Bars: 2, BeatsPerBar: 4, EndSeqNote: 127}
}

// Validate rejects out-of-range parameters before any recording starts.
func (c Config) Validate() error {
	if c.BPM <= 0 {
		return &ConfigError{Field: "bpm", Value: c.BPM, Reason: "must be positive"}
	}
	if c.PPQ <= 0 {
		return &ConfigError{Field: "ppq", Value: c.PPQ, Reason: "must be positive"}
	}
	if c.Bars <= 0 {
		return &ConfigError{Field: "bars", Value: c.Bars, Reason: "must be positive"}
	}
	if c.BeatsPerBar <= 0 {
		return &ConfigError{Field: "beatsPerBar", Value: c.BeatsPerBar, Reason: "must be positive"}
	}
	if c.EndSeqNote >= NumPitches {
		return &ConfigError{Field: "endSeqNote", Value: c.EndSeqNote, Reason: "must be 0-127"}
	}
	return nil
}

// BarLength returns ticks per bar.
func (c Config) BarLength() int { return c.PPQ * c.BeatsPerBar }

// TotalTicks returns the full recording length in ticks.
func (c Config) TotalTicks() int { return c.Bars * c.BarLength() }

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTransport sets the external MIDI transport used by OpenInput and
// OpenOutput.
func WithTransport(t Transport) Option {
	return func(s *Session) { s.transport = t }
}

// WithSend sets the outbound send function directly, bypassing the
// transport.
func WithSend(send SendFunc) Option {
	return func(s *Session) { s.send = send }
}

// WithRestartOnSilence makes a recording that reaches its natural end
// without a single note start over instead of completing.
func WithRestartOnSilence(on bool) Option {
	return func(s *Session) { s.restartOnSilence = on }
}

// Session owns the clock, event buffer and matrix, and drives the
// recorder or player depending on mode. All methods except the note
// callback must be called from the polling goroutine.
type Session struct {
	cfg    Config
	clock  *Clock
	buf    *EventBuffer
	mat    *Matrix
	rec    *Recorder
	player *Player
	state  State

	transport        Transport
	send             SendFunc
	restartOnSilence bool
	logger           *zap.Logger
}

// NewSession validates cfg and creates an idle session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock, err := NewClock(cfg.BPM, cfg.PPQ)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		clock:  clock,
		buf:    &EventBuffer{},
		state:  StateIdle,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HandleNote is the inbound transport callback: it runs on the
// transport's thread and only touches the event buffer. Out-of-range
// pitch or velocity is dropped silently.
func (s *Session) HandleNote(note, velocity uint8, on bool) {
	if note >= NumPitches || velocity > 127 {
		return
	}
	s.buf.Push(NoteEvent{Note: note, Velocity: velocity, On: on})
}

// OpenInput registers HandleNote with the transport.
func (s *Session) OpenInput() error {
	if s.transport == nil {
		return ErrNoTransport
	}
	return s.transport.OpenInput(s.HandleNote)
}

// OpenOutput obtains the outbound send function from the transport.
func (s *Session) OpenOutput() error {
	if s.transport == nil {
		return ErrNoTransport
	}
	send, err := s.transport.OpenOutput()
	if err != nil {
		return err
	}
	s.send = SendFunc(send)
	return nil
}

// StartRecording resets the clock, buffer and matrix and switches to
// Recording. Valid from Idle or either terminal state.
func (s *Session) StartRecording() error {
	switch s.state {
	case StateIdle, StateRecordingComplete, StatePlaybackComplete:
	default:
		return &StateError{Op: "StartRecording", State: s.state}
	}
	s.mat = NewMatrix(s.cfg.TotalTicks())
	s.rec = NewRecorder(s.buf, s.mat, s.cfg.EndSeqNote)
	s.player = nil
	s.buf.Reset()
	s.clock.Reset()
	s.state = StateRecording
	s.logger.Info("recording started",
		zap.Float64("bpm", s.cfg.BPM),
		zap.Int("ppq", s.cfg.PPQ),
		zap.Int("ticks", s.cfg.TotalTicks()))
	return nil
}

// StartPlayback resets the clock and switches to Playing. A nil matrix
// replays the session's own recording. Valid from Idle or either
// terminal state; requires an opened output or WithSend.
func (s *Session) StartPlayback(m *Matrix) error {
	switch s.state {
	case StateIdle, StateRecordingComplete, StatePlaybackComplete:
	default:
		return &StateError{Op: "StartPlayback", State: s.state}
	}
	if m == nil {
		m = s.mat
	}
	if m == nil {
		return &StateError{Op: "StartPlayback", State: s.state}
	}
	if s.send == nil {
		return ErrNoOutput
	}
	s.player = NewPlayer(m, s.send)
	s.clock.Reset()
	s.state = StatePlaying
	s.logger.Info("playback started", zap.Int("rows", m.Len()))
	return nil
}

// Poll is the single per-iteration entry point for the caller's loop.
// It advances the clock and, on a new tick, dispatches to the recorder
// or player. It returns true exactly once: on the tick where the active
// state machine reaches its terminal state.
func (s *Session) Poll() (bool, error) {
	switch s.state {
	case StateRecording:
		tick, ok := s.clock.Advance()
		if !ok {
			return false, nil
		}
		if !s.rec.OnTick(tick) {
			return false, nil
		}
		if s.restartOnSilence && s.rec.Recorded() == 0 && !s.rec.EndedBySentinel() {
			s.logger.Info("no notes recorded, starting over")
			s.mat = NewMatrix(s.cfg.TotalTicks())
			s.rec = NewRecorder(s.buf, s.mat, s.cfg.EndSeqNote)
			s.buf.Reset()
			s.clock.Reset()
			return false, nil
		}
		s.state = StateRecordingComplete
		s.logger.Info("recording complete",
			zap.Int("rows", s.mat.Len()),
			zap.Int("events", s.rec.Recorded()),
			zap.Bool("sentinel", s.rec.EndedBySentinel()))
		return true, nil

	case StatePlaying:
		tick, ok := s.clock.Advance()
		if !ok {
			return false, nil
		}
		done, err := s.player.OnTick(tick)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
		s.state = StatePlaybackComplete
		s.logger.Info("playback complete")
		return true, nil

	default:
		return false, &StateError{Op: "Poll", State: s.state}
	}
}

// Matrix returns the finished recording. It fails until the recorder
// has completed; the result stays available through playback until
// Reset.
func (s *Session) Matrix() (*Matrix, error) {
	switch s.state {
	case StateRecordingComplete, StatePlaying, StatePlaybackComplete:
		if s.mat != nil {
			return s.mat, nil
		}
	}
	return nil, &StateError{Op: "Matrix", State: s.state}
}

// Reset discards all buffered state unconditionally and returns to
// Idle. No partial results are salvaged.
func (s *Session) Reset() {
	s.clock.Reset()
	s.buf.Reset()
	s.mat = nil
	s.rec = nil
	s.player = nil
	s.state = StateIdle
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Config returns the session parameters.
func (s *Session) Config() Config { return s.cfg }

// Tick returns the last delivered clock tick (-1 before the first).
func (s *Session) Tick() int { return s.clock.Tick() }

// Beat returns the metronome beat count for the current tick.
func (s *Session) Beat() int {
	if t := s.clock.Tick(); t >= 0 {
		return t / s.cfg.PPQ
	}
	return 0
}

// Bar returns the bar index for the current tick.
func (s *Session) Bar() int { return s.Beat() / s.cfg.BeatsPerBar }
