package midi

import (
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
)

// Transport wraps the system MIDI layer: input listening with an
// asynchronous callback, and synchronous note output. Output falls back
// to a virtual port other software can listen to when no hardware or
// software synth is found.
type Transport struct {
	drv    *rtmididrv.Driver
	logger *zap.Logger

	inPortName  string
	outPortName string
	virtualName string
	channel     uint8

	in      drivers.In
	stopIn  func()
	out     drivers.Out
	outName string
	sendRaw func(gomidi.Message) error
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the structured logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// WithInputPort pins the input to the named port instead of the first
// available one. Matching is case-insensitive on substring.
func WithInputPort(name string) Option {
	return func(t *Transport) { t.inPortName = name }
}

// WithOutputPort pins the output to the named port instead of
// autodetecting a synth.
func WithOutputPort(name string) Option {
	return func(t *Transport) { t.outPortName = name }
}

// WithVirtualName sets the name of the virtual output port created when
// no output device is found.
func WithVirtualName(name string) Option {
	return func(t *Transport) { t.virtualName = name }
}

// WithChannel sets the MIDI channel (0-15) for outbound notes.
func WithChannel(ch uint8) Option {
	return func(t *Transport) { t.channel = ch & 0x0F }
}

// New initializes the rtmidi driver.
func New(opts ...Option) (*Transport, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, &TransportError{Op: "init driver", Err: err}
	}
	t := &Transport{
		drv:         drv,
		logger:      zap.NewNop(),
		virtualName: "liveroll",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Inputs lists the names of the available input ports.
func (t *Transport) Inputs() ([]string, error) {
	ins, err := t.drv.Ins()
	if err != nil {
		return nil, &TransportError{Op: "list inputs", Err: err}
	}
	return portNames(ins), nil
}

// Outputs lists the names of the available output ports.
func (t *Transport) Outputs() ([]string, error) {
	outs, err := t.drv.Outs()
	if err != nil {
		return nil, &TransportError{Op: "list outputs", Err: err}
	}
	return portNames(outs), nil
}

// OpenInput starts listening on the input port and invokes cb for every
// note message. The callback runs on the driver's thread and must not
// block.
func (t *Transport) OpenInput(cb func(note, velocity uint8, on bool)) error {
	ins, err := t.drv.Ins()
	if err != nil {
		return &TransportError{Op: "open input", Err: err}
	}
	idx := matchPort(portNames(ins), t.inPortName)
	if idx < 0 {
		return &TransportError{Op: "open input", Port: t.inPortName, Err: ErrPortNotFound}
	}
	port := ins[idx]

	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		if note, velocity, on, ok := translateNote(msg); ok {
			cb(note, velocity, on)
		}
	})
	if err != nil {
		return &TransportError{Op: "open input", Port: port.String(), Err: err}
	}
	t.in = port
	t.stopIn = stop
	t.logger.Info("listening on input port", zap.String("port", port.String()))
	return nil
}

// OpenOutput opens the output port and returns the send function. Port
// choice: the configured name, else a software synth ("synth input" in
// the port name, the FluidSynth convention), else a fresh virtual port.
func (t *Transport) OpenOutput() (func(note, velocity uint8, on bool) error, error) {
	outs, err := t.drv.Outs()
	if err != nil {
		return nil, &TransportError{Op: "open output", Err: err}
	}

	var port drivers.Out
	if t.outPortName != "" {
		idx := matchPort(portNames(outs), t.outPortName)
		if idx < 0 {
			return nil, &TransportError{Op: "open output", Port: t.outPortName, Err: ErrPortNotFound}
		}
		port = outs[idx]
	} else if idx := matchPort(portNames(outs), "synth input"); idx >= 0 {
		port = outs[idx]
	}

	if port == nil {
		virtual, err := t.drv.OpenVirtualOut(t.virtualName)
		if err != nil {
			return nil, &TransportError{Op: "open virtual output", Port: t.virtualName, Err: err}
		}
		port = virtual
		t.logger.Info("no synth found, created virtual output port",
			zap.String("port", t.virtualName))
	} else {
		t.logger.Info("using output port", zap.String("port", port.String()))
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, &TransportError{Op: "open output", Port: port.String(), Err: err}
	}
	t.out = port
	t.outName = port.String()
	t.sendRaw = send

	return func(note, velocity uint8, on bool) error {
		var msg gomidi.Message
		if on {
			msg = gomidi.NoteOn(t.channel, note, velocity)
		} else {
			msg = gomidi.NoteOff(t.channel, note)
		}
		if err := t.sendRaw(msg); err != nil {
			return &TransportError{Op: "send", Port: t.outName, Err: err}
		}
		return nil
	}, nil
}

// Close stops the listener and releases all ports and the driver.
func (t *Transport) Close() error {
	if t.stopIn != nil {
		t.stopIn()
		t.stopIn = nil
	}
	if t.in != nil {
		t.in.Close()
		t.in = nil
	}
	if t.out != nil {
		t.out.Close()
		t.out = nil
	}
	if err := t.drv.Close(); err != nil {
		return &TransportError{Op: "close driver", Err: err}
	}
	return nil
}

// translateNote extracts a note-on/note-off from a raw message. A
// note-on with velocity zero counts as a release, which gomidi folds
// into GetNoteEnd.
func translateNote(msg gomidi.Message) (note, velocity uint8, on, ok bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return key, vel, true, true
	case msg.GetNoteEnd(&ch, &key):
		return key, 0, false, true
	}
	return 0, 0, false, false
}

// matchPort finds a port name by case-insensitive substring, or the
// first port when want is empty. Returns -1 when nothing matches.
func matchPort(names []string, want string) int {
	if len(names) == 0 {
		return -1
	}
	if want == "" {
		return 0
	}
	lower := strings.ToLower(want)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i
		}
	}
	return -1
}

func portNames[P drivers.Port](ports []P) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names
}
