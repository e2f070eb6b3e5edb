package trace

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// eventEncMode writes core deterministic CBOR so identical events produce
// identical bytes. Timestamps keep nanoseconds as RFC 3339 text.
var eventEncMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic("trace: cbor encoder mode: " + err.Error())
	}
	return em
}()

// EncodeEvent encodes a single event.
func EncodeEvent(ev Event) ([]byte, error) {
	return eventEncMode.Marshal(ev)
}

// Recorder receives trace events.
type Recorder interface {
	Record(ev Event)
}

// FileRecorder appends events to a CBOR file.
// It is safe for concurrent use.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
	err     error
}

// NewFileRecorder opens path for appending, creating it if needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{file: f, encoder: eventEncMode.NewEncoder(f)}, nil
}

// Record writes ev. Events recorded after Close are dropped.
func (r *FileRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if err := r.encoder.Encode(ev); err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first encoding error, if any.
func (r *FileRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close closes the file. It is safe to call more than once.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

var _ Recorder = (*FileRecorder)(nil)

// MemoryRecorder keeps events in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends ev.
func (m *MemoryRecorder) Record(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of the recorded events.
func (m *MemoryRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
