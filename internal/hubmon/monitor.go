// Package hubmon runs an SHTP driver against a live hub: it initialises the
// device, polls for reports, keeps counters, persists routed frames and
// exposes the state on the tsweb debug page.
package hubmon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/sensorhub/internal/db"
	"github.com/banshee-data/sensorhub/internal/monitoring"
	"github.com/banshee-data/sensorhub/internal/shtp"
	"github.com/banshee-data/sensorhub/internal/timeutil"
)

// DefaultIdleInterval is how long Run waits after an empty poll.
const DefaultIdleInterval = 5 * time.Millisecond

// Store persists sessions and routed reports. *db.DB satisfies it.
type Store interface {
	StartSession(id, port string, startedAt time.Time) error
	MarkSession(id string, state shtp.DeviceState) error
	RecordReport(r db.Report) error
}

var _ Store = (*db.DB)(nil)

// Options configures a Monitor. Zero values are replaced with defaults.
type Options struct {
	// Port names the serial device for the session record.
	Port string
	// SessionID overrides the generated UUID.
	SessionID string
	Store     Store
	Clock     timeutil.Clock
	// IdleInterval is the pause after a poll that found nothing.
	IdleInterval time.Duration
}

// Event is published to subscribers for every routed frame.
type Event struct {
	Time        time.Time    `json:"time"`
	Channel     shtp.Channel `json:"channel"`
	Sequence    uint8        `json:"sequence"`
	Length      int          `json:"length"`
	ReportID    *uint8       `json:"report_id,omitempty"`
	Disposition string       `json:"disposition"`
}

// Snapshot is a point-in-time view of the monitor.
type Snapshot struct {
	SessionID    string           `json:"session_id"`
	Port         string           `json:"port"`
	StartedAt    time.Time        `json:"started_at"`
	State        shtp.DeviceState `json:"state"`
	Frames       int              `json:"frames"`
	Errors       int              `json:"errors"`
	StoreErrors  int              `json:"store_errors"`
	Dispositions map[string]int   `json:"dispositions"`
	LastFrame    time.Time        `json:"last_frame"`
}

// Monitor owns a driver. The driver is only touched with mu held, so the
// admin routes can issue resets while Run is polling.
type Monitor struct {
	mu     sync.Mutex
	driver *shtp.Driver

	session string
	port    string
	store   Store
	clock   timeutil.Clock
	idle    time.Duration

	statsMu     sync.Mutex
	startedAt   time.Time
	frames      int
	errors      int
	storeErrors int
	counts      map[shtp.Disposition]int
	lastFrame   time.Time
	persisted   shtp.DeviceState

	subscriberMu sync.Mutex
	subscribers  map[string]chan Event
	closed       bool
}

// New creates a Monitor driving transport.
func New(transport shtp.Transport, opts Options) *Monitor {
	m := &Monitor{
		driver:      shtp.NewDriver(transport),
		session:     opts.SessionID,
		port:        opts.Port,
		store:       opts.Store,
		clock:       opts.Clock,
		idle:        opts.IdleInterval,
		counts:      make(map[shtp.Disposition]int),
		subscribers: make(map[string]chan Event),
	}
	if m.session == "" {
		m.session = uuid.NewString()
	}
	if m.clock == nil {
		m.clock = timeutil.RealClock{}
	}
	if m.idle <= 0 {
		m.idle = DefaultIdleInterval
	}
	m.driver.SetHandler(m.handleFrame)
	return m
}

// SessionID returns the session identifier.
func (m *Monitor) SessionID() string {
	return m.session
}

// Start initialises the hub and enables the rotation vector report.
func (m *Monitor) Start(intervalMs uint16) error {
	m.statsMu.Lock()
	m.startedAt = m.clock.Now()
	m.statsMu.Unlock()

	if m.store != nil {
		if err := m.store.StartSession(m.session, m.port, m.startedAt); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.driver.Init(m.clock); err != nil {
		return fmt.Errorf("init hub: %w", err)
	}
	monitoring.Logf("hubmon: session %s initialised hub on %s", m.session, m.port)

	if err := m.driver.EnableRotationVector(intervalMs); err != nil {
		return fmt.Errorf("enable rotation vector: %w", err)
	}
	monitoring.Logf("hubmon: rotation vector enabled every %dms", intervalMs)

	m.persistState(m.driver.State())
	return nil
}

// Poll handles at most one inbound frame and reports how many were handled.
func (m *Monitor) Poll() int {
	m.mu.Lock()
	n, err := m.driver.HandleOneMessage()
	state := m.driver.State()
	m.mu.Unlock()

	if err != nil {
		m.statsMu.Lock()
		m.errors++
		m.statsMu.Unlock()
		monitoring.Logf("hubmon: %v", err)
	}
	m.persistState(state)
	return n
}

// Run polls until ctx is cancelled, pausing for the idle interval whenever
// nothing was received.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Poll() > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.idle):
		}
	}
}

// SoftReset asks the hub to reset. Reset-complete arrives through Run.
func (m *Monitor) SoftReset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driver.SoftReset()
}

// Snapshot returns the device flags and per-disposition counts seen so far.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	state := m.driver.State()
	m.mu.Unlock()

	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	disp := make(map[string]int, len(m.counts))
	for d, n := range m.counts {
		disp[d.String()] = n
	}
	return Snapshot{
		SessionID:    m.session,
		Port:         m.port,
		StartedAt:    m.startedAt,
		State:        state,
		Frames:       m.frames,
		Errors:       m.errors,
		StoreErrors:  m.storeErrors,
		Dispositions: disp,
		LastFrame:    m.lastFrame,
	}
}

// handleFrame runs inside the driver with mu held.
func (m *Monitor) handleFrame(f shtp.Frame, d shtp.Disposition) {
	now := m.clock.Now()

	m.statsMu.Lock()
	m.frames++
	m.counts[d]++
	m.lastFrame = now
	m.statsMu.Unlock()

	monitoring.Debugf("hubmon: %s seq=%d len=%d -> %s", f.Channel, f.Sequence, f.Length, d)

	if m.store != nil {
		if err := m.store.RecordReport(db.NewReport(m.session, f, d, now)); err != nil {
			m.statsMu.Lock()
			m.storeErrors++
			m.statsMu.Unlock()
			monitoring.Logf("hubmon: %v", err)
		}
	}

	ev := Event{
		Time:        now,
		Channel:     f.Channel,
		Sequence:    f.Sequence,
		Length:      int(f.Length),
		Disposition: d.String(),
	}
	if id, ok := f.ReportID(); ok {
		ev.ReportID = &id
	}
	m.publish(ev)
}

// persistState writes the device flags when they change.
func (m *Monitor) persistState(state shtp.DeviceState) {
	if m.store == nil {
		return
	}
	m.statsMu.Lock()
	changed := state.ResetComplete != m.persisted.ResetComplete ||
		state.ProductIDVerified != m.persisted.ProductIDVerified
	if changed {
		m.persisted = state
	}
	m.statsMu.Unlock()

	if !changed {
		return
	}
	if err := m.store.MarkSession(m.session, state); err != nil {
		m.statsMu.Lock()
		m.storeErrors++
		m.statsMu.Unlock()
		monitoring.Logf("hubmon: %v", err)
	}
}
