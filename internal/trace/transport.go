package trace

import (
	"time"

	"github.com/banshee-data/sensorhub/internal/shtp"
)

// TracingTransport records every frame passing through an shtp.Transport.
type TracingTransport struct {
	inner    shtp.Transport
	recorder Recorder
	session  string
	now      func() time.Time
}

var _ shtp.Transport = (*TracingTransport)(nil)

// NewTracingTransport wraps inner. now may be nil to use time.Now.
func NewTracingTransport(inner shtp.Transport, rec Recorder, session string, now func() time.Time) *TracingTransport {
	if now == nil {
		now = time.Now
	}
	return &TracingTransport{inner: inner, recorder: rec, session: session, now: now}
}

// Setup forwards to the wrapped transport. It records nothing.
func (t *TracingTransport) Setup(delay shtp.Delay) error {
	return t.inner.Setup(delay)
}

// Send records the frame only when the inner send succeeds.
func (t *TracingTransport) Send(data []byte) error {
	if err := t.inner.Send(data); err != nil {
		return err
	}
	t.recorder.Record(NewEvent(t.now(), t.session, DirectionOut, data))
	return nil
}

// Receive records non-empty reads.
func (t *TracingTransport) Receive(buf []byte) (int, error) {
	n, err := t.inner.Receive(buf)
	if err == nil && n > 0 {
		t.recorder.Record(NewEvent(t.now(), t.session, DirectionIn, buf[:n]))
	}
	return n, err
}
