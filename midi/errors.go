package midi

import (
	"errors"
	"fmt"
)

// ErrPortNotFound is returned when a requested port name matches no
// connected device.
var ErrPortNotFound = errors.New("midi: port not found")

// TransportError reports a failure talking to the system MIDI layer.
// It is surfaced, never retried internally: a failed send may mean a
// disconnected device, and retry policy belongs to the caller.
type TransportError struct {
	Op   string
	Port string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("midi: %s %q: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("midi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
