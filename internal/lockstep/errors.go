package lockstep

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks fatal startup problems: a missing renderer, an
// unknown sync mode. Sessions refuse to construct on these.
var ErrConfiguration = errors.New("lockstep: configuration error")

// ErrDecode marks a malformed inbound payload. Decode failures are local to
// the inbound handler: the payload is dropped and the tick loop keeps running.
var ErrDecode = errors.New("lockstep: decode error")

// ErrPlayerAssigned is returned when a second playerJoined arrives for a
// session whose identity is already set.
var ErrPlayerAssigned = errors.New("lockstep: player identity already assigned")

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// DecodeErrorf wraps a deserializer failure so callers can test for ErrDecode.
func DecodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}
