// Package trace records raw SHTP frames to a CBOR file for offline replay.
package trace

import (
	"time"

	"github.com/banshee-data/sensorhub/internal/shtp"
)

// Event is one frame crossing the transport.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the frame was sent or received.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the monitor session (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	Direction Direction `cbor:"3,keyasint"`

	// Channel and Sequence are copied from the frame header when present.
	Channel  shtp.Channel `cbor:"4,keyasint"`
	Sequence uint8        `cbor:"5,keyasint"`

	// Length is the number of bytes that crossed the transport.
	Length int `cbor:"6,keyasint"`

	Data []byte `cbor:"7,keyasint,omitempty"`
}

// Direction indicates which way a frame travelled.
type Direction uint8

const (
	// DirectionIn is a frame received from the hub.
	DirectionIn Direction = 0
	// DirectionOut is a frame sent to the hub.
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// NewEvent builds an event for data, copying header fields when data holds
// a full SHTP header.
func NewEvent(ts time.Time, session string, dir Direction, data []byte) Event {
	ev := Event{
		Timestamp: ts,
		SessionID: session,
		Direction: dir,
		Length:    len(data),
		Data:      append([]byte(nil), data...),
	}
	if len(data) >= shtp.HeaderLength {
		ev.Channel = shtp.Channel(data[2])
		ev.Sequence = data[3]
	}
	return ev
}

// Frame parses the recorded bytes as an SHTP frame.
func (e Event) Frame() (shtp.Frame, error) {
	return shtp.ParseFrame(e.Data, len(e.Data))
}
