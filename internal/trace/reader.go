package trace

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/banshee-data/sensorhub/internal/shtp"
)

// eventDecMode accepts only what eventEncMode writes: definite lengths and
// no repeated keys. An Event has seven fields, so larger maps are corrupt.
var eventDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		MaxMapPairs: 16,
	}.DecMode()
	if err != nil {
		panic("trace: cbor decoder mode: " + err.Error())
	}
	return dm
}()

// DecodeEvent decodes a single event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := eventDecMode.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Channel   *shtp.Channel
	Direction *Direction
	SessionID string
}

func (f Filter) matches(ev Event) bool {
	if f.Channel != nil && ev.Channel != *f.Channel {
		return false
	}
	if f.Direction != nil && ev.Direction != *f.Direction {
		return false
	}
	if f.SessionID != "" && ev.SessionID != f.SessionID {
		return false
	}
	return true
}

// Reader streams events from a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a trace file for reading every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file and yields only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: eventDecMode.NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.decoder.Decode(&ev); err != nil {
			return Event{}, err
		}
		if r.filter.matches(ev) {
			return ev, nil
		}
	}
}

// ReadAll returns every remaining matching event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
