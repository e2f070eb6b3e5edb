package shtp

import (
	"errors"
	"fmt"
	"sync"
)

// MockTransport is an in-memory Transport for tests and dev mode. Queued
// packets are returned one per Receive; when the queue is empty Receive
// reports zero bytes.
type MockTransport struct {
	mu sync.Mutex

	available [][]byte
	sent      [][]byte

	// SetupCalls records the number of Setup calls.
	SetupCalls int

	// SetupError is returned by Setup if set.
	SetupError error

	// SendError is returned by the next Send call if set.
	SendError error

	// ReceiveError is returned by the next Receive call if set.
	ReceiveError error

	// Respond, if set, is called with each sent frame and its results are
	// queued for subsequent Receive calls.
	Respond func(frame []byte) [][]byte
}

// NewMockTransport creates a MockTransport with packets already queued.
func NewMockTransport(packets ...[]byte) *MockTransport {
	m := &MockTransport{}
	for _, p := range packets {
		m.AddAvailablePacket(p)
	}
	return m
}

// AddAvailablePacket queues a copy of p for a later Receive.
func (m *MockTransport) AddAvailablePacket(p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = append(m.available, append([]byte(nil), p...))
}

// Available returns the number of queued packets.
func (m *MockTransport) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.available)
}

// SentPackets returns copies of every frame sent so far.
func (m *MockTransport) SentPackets() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	for i, p := range m.sent {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// Setup implements Transport.
func (m *MockTransport) Setup(Delay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetupCalls++
	return m.SetupError
}

// Send implements Transport.
func (m *MockTransport) Send(frame []byte) error {
	m.mu.Lock()
	if m.SendError != nil {
		err := m.SendError
		m.SendError = nil
		m.mu.Unlock()
		return err
	}
	m.sent = append(m.sent, append([]byte(nil), frame...))
	respond := m.Respond
	m.mu.Unlock()

	if respond != nil {
		for _, p := range respond(frame) {
			m.AddAvailablePacket(p)
		}
	}
	return nil
}

// Receive implements Transport.
func (m *MockTransport) Receive(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReceiveError != nil {
		err := m.ReceiveError
		m.ReceiveError = nil
		return 0, err
	}
	if len(m.available) == 0 {
		return 0, nil
	}

	p := m.available[0]
	m.available = m.available[1:]
	if len(p) > len(buf) {
		return 0, fmt.Errorf("mock transport: %d byte packet exceeds %d byte buffer", len(p), len(buf))
	}
	return copy(buf, p), nil
}

// ErrMockClosed is a convenience error for tests simulating a dead bus.
var ErrMockClosed = errors.New("mock transport closed")

var _ Transport = (*MockTransport)(nil)
