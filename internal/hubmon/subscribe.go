package hubmon

import (
	"crypto/rand"
	"encoding/hex"
)

// subscriberBuffer bounds how far a slow subscriber may lag before events
// are dropped for it.
const subscriberBuffer = 64

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Subscribe registers for routed-frame events. The channel is closed by
// Unsubscribe or Close.
func (m *Monitor) Subscribe() (string, <-chan Event) {
	id := randomID()
	ch := make(chan Event, subscriberBuffer)

	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	if m.closed {
		close(ch)
		return id, ch
	}
	m.subscribers[id] = ch
	return id, ch
}

// Unsubscribe closes and removes the subscription id. Unknown ids are ignored.
func (m *Monitor) Unsubscribe(id string) {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	if ch, ok := m.subscribers[id]; ok {
		close(ch)
		delete(m.subscribers, id)
	}
}

func (m *Monitor) publish(ev Event) {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
			// drop rather than stall the poll loop
		}
	}
}

// Close releases all subscribers. The transport is owned by the caller.
func (m *Monitor) Close() {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	m.closed = true
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
}
