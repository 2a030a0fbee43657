package decoder

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/gateway"
	"github.com/fuad-daoud/discord-mirror/events"
)

// Decoder turns one raw gateway payload into its typed domain event. Pure and
// stateless: one call per payload, no side effects.
type Decoder interface {
	Decode(eventType gateway.EventType, data []byte) (events.Event, error)
}

// ErrUnknownEventType marks an event kind with no registered payload shape.
var ErrUnknownEventType = errors.New("unknown event type")

// DecodeError wraps a malformed or schema-mismatched payload. The
// synchronization dispatcher drops the payload without touching the mirror.
type DecodeError struct {
	EventType gateway.EventType
	Err       error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %s", e.EventType, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}
