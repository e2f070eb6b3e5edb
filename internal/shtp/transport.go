package shtp

import "time"

// Delay blocks the caller for a duration. timeutil.Clock satisfies it.
type Delay interface {
	Sleep(d time.Duration)
}

// Transport moves whole SHTP frames over a physical bus.
//
// Receive reads exactly one frame into buf and returns its length; a return
// of 0 means nothing was available. Timeouts, if any, belong to the
// Transport.
type Transport interface {
	Setup(delay Delay) error
	Send(frame []byte) error
	Receive(buf []byte) (int, error)
}
