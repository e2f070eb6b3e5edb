package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/banshee-data/sensorhub/internal/shtp"
)

// Session is one monitor run against a hub.
type Session struct {
	ID                string    `json:"session_id"`
	Port              string    `json:"port"`
	StartedAt         time.Time `json:"started_at"`
	ProductIDVerified bool      `json:"product_id_verified"`
	ResetComplete     bool      `json:"reset_complete"`
}

// Report is one routed inbound frame. ReportID is null when the frame had
// no body.
type Report struct {
	SessionID   string
	Channel     shtp.Channel
	ReportID    sql.NullInt16
	Sequence    uint8
	Length      int
	Disposition string
	ReceivedAt  time.Time
}

// NewReport builds a Report from a parsed frame.
func NewReport(sessionID string, f shtp.Frame, disp shtp.Disposition, at time.Time) Report {
	r := Report{
		SessionID:   sessionID,
		Channel:     f.Channel,
		Sequence:    f.Sequence,
		Length:      int(f.Length),
		Disposition: disp.String(),
		ReceivedAt:  at,
	}
	if id, ok := f.ReportID(); ok {
		r.ReportID = sql.NullInt16{Int16: int16(id), Valid: true}
	}
	return r
}

// ReportCount aggregates reports by channel and disposition.
type ReportCount struct {
	Channel     shtp.Channel `json:"channel"`
	Disposition string       `json:"disposition"`
	Count       int          `json:"count"`
}

// StartSession inserts a session row for a monitor run on port.
func (db *DB) StartSession(id, port string, startedAt time.Time) error {
	_, err := db.Exec(
		`INSERT INTO sessions (session_id, port, started_at) VALUES (?, ?, ?)`,
		id, port, startedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("start session %s: %w", id, err)
	}
	return nil
}

// MarkSession stores the device flags reached by a session.
func (db *DB) MarkSession(id string, state shtp.DeviceState) error {
	res, err := db.Exec(
		`UPDATE sessions SET product_id_verified = ?, reset_complete = ? WHERE session_id = ?`,
		state.ProductIDVerified, state.ResetComplete, id,
	)
	if err != nil {
		return fmt.Errorf("mark session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark session %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// RecordReport inserts one classified inbound frame.
func (db *DB) RecordReport(r Report) error {
	_, err := db.Exec(
		`INSERT INTO reports (session_id, channel, report_id, sequence, length, disposition, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, int(r.Channel), r.ReportID, int(r.Sequence), r.Length, r.Disposition, r.ReceivedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record report: %w", err)
	}
	return nil
}

// ReportCounts returns per-channel, per-disposition counts for a session.
func (db *DB) ReportCounts(sessionID string) ([]ReportCount, error) {
	rows, err := db.Query(
		`SELECT channel, disposition, COUNT(*) FROM reports
		 WHERE session_id = ?
		 GROUP BY channel, disposition
		 ORDER BY channel, disposition`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ReportCount
	for rows.Next() {
		var c ReportCount
		var ch int
		if err := rows.Scan(&ch, &c.Disposition, &c.Count); err != nil {
			return nil, err
		}
		c.Channel = shtp.Channel(ch)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Sessions returns all sessions, newest first.
func (db *DB) Sessions() ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, port, started_at, product_id_verified, reset_complete
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var started int64
		if err := rows.Scan(&s.ID, &s.Port, &started, &s.ProductIDVerified, &s.ResetComplete); err != nil {
			return nil, err
		}
		s.StartedAt = time.Unix(0, started)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
