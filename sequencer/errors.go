package sequencer

import (
	"errors"
	"fmt"
)

// ErrNoTransport is returned when a port operation is attempted on a
// session that was built without a transport.
var ErrNoTransport = errors.New("sequencer: no transport configured")

// ErrNoOutput is returned when playback is started before an output
// was opened or a send function was set.
var ErrNoOutput = errors.New("sequencer: no output opened")

// ConfigError reports an invalid session parameter. It is fatal: the
// session is rejected before any recording starts.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sequencer: config %s=%v: %s", e.Field, e.Value, e.Reason)
}

// StateError reports an operation invoked in the wrong session state.
// Recoverable by correcting call order.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("sequencer: %s: invalid in state %s", e.Op, e.State)
}
