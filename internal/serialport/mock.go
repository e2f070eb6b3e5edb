package serialport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

var errPortClosed = errors.New("serial port closed")

// TestableSerialPort is an in-memory TimeoutSerialPorter. An empty read
// buffer reads as an idle line, (0, nil), the way a go.bug.st/serial port
// behaves when its read timeout expires.
type TestableSerialPort struct {
	mu sync.Mutex

	in  bytes.Buffer
	out bytes.Buffer

	// MaxRead caps the bytes handed out per Read; zero means no cap.
	MaxRead int
	// ShortWrite makes Write accept one byte fewer than offered.
	ShortWrite bool

	// One-shot injected failures.
	ReadError  error
	WriteError error

	TimeoutError error
	CloseError   error

	Closed      bool
	ReadTimeout time.Duration
	InputResets int
	ReadCalls   int
	WriteCalls  int
}

func NewTestableSerialPort() *TestableSerialPort {
	return &TestableSerialPort{}
}

func (t *TestableSerialPort) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ReadCalls++
	switch {
	case t.Closed:
		return 0, errPortClosed
	case t.ReadError != nil:
		err := t.ReadError
		t.ReadError = nil
		return 0, err
	case t.in.Len() == 0:
		return 0, nil
	}
	if t.MaxRead > 0 && len(p) > t.MaxRead {
		p = p[:t.MaxRead]
	}
	return t.in.Read(p)
}

func (t *TestableSerialPort) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++
	switch {
	case t.Closed:
		return 0, errPortClosed
	case t.WriteError != nil:
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}
	if t.ShortWrite && len(p) > 0 {
		p = p[:len(p)-1]
	}
	return t.out.Write(p)
}

func (t *TestableSerialPort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Closed = true
	return t.CloseError
}

func (t *TestableSerialPort) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.TimeoutError != nil {
		return t.TimeoutError
	}
	t.ReadTimeout = timeout
	return nil
}

// ResetInputBuffer drops anything not yet read.
func (t *TestableSerialPort) ResetInputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.InputResets++
	t.in.Reset()
	return nil
}

// AddReadData queues bytes for later reads.
func (t *TestableSerialPort) AddReadData(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.in.Write(data)
}

// Written returns a copy of everything written so far.
func (t *TestableSerialPort) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return bytes.Clone(t.out.Bytes())
}

var _ TimeoutSerialPorter = (*TestableSerialPort)(nil)
