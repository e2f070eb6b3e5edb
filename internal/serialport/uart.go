package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/sensorhub/internal/monitoring"
	"github.com/banshee-data/sensorhub/internal/shtp"
)

// UART-SHTP byte framing.
const (
	flagByte   = 0x7E
	escapeByte = 0x7D
	escapeXOR  = 0x20

	// protocolSHTP prefixes every SHTP payload inside a flagged frame.
	// Other ids (bootloader traffic) are skipped.
	protocolSHTP = 0x01
)

// SettleDelay is how long Setup waits after configuring the port.
const SettleDelay = 10 * time.Millisecond

var (
	// ErrFrameTooLarge is returned when an incoming frame does not fit the
	// caller's buffer. The transport resynchronises on the next flag.
	ErrFrameTooLarge = errors.New("serialport: frame too large")
	// ErrTruncatedFrame is returned when the port goes idle mid-frame.
	ErrTruncatedFrame = errors.New("serialport: truncated frame")
	// ErrWriteFailed is returned on a short write.
	ErrWriteFailed = errors.New("serialport: short write")
)

// Transport implements shtp.Transport over a serial port using UART-SHTP
// framing.
type Transport struct {
	port        SerialPorter
	readTimeout time.Duration

	pending []byte
	chunk   [256]byte
	frame   []byte
	open    bool
}

var _ shtp.Transport = (*Transport)(nil)

// NewTransport wraps port. A zero readTimeout leaves the port's timeout
// untouched.
func NewTransport(port SerialPorter, readTimeout time.Duration) *Transport {
	return &Transport{
		port:        port,
		readTimeout: readTimeout,
		frame:       make([]byte, 0, shtp.RecvBufferLen+1),
	}
}

// Setup applies the read timeout, discards stale input and waits for the
// line to settle.
func (t *Transport) Setup(delay shtp.Delay) error {
	if tp, ok := t.port.(TimeoutSerialPorter); ok && t.readTimeout > 0 {
		if err := tp.SetReadTimeout(t.readTimeout); err != nil {
			return fmt.Errorf("set read timeout: %w", err)
		}
	}
	if r, ok := t.port.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return fmt.Errorf("reset input buffer: %w", err)
		}
	}
	t.pending = t.pending[:0]
	t.frame = t.frame[:0]
	t.open = false
	delay.Sleep(SettleDelay)
	return nil
}

// Send writes data as one flagged, byte-stuffed frame.
func (t *Transport) Send(data []byte) error {
	out := make([]byte, 0, len(data)*2+3)
	out = append(out, flagByte, protocolSHTP)
	out = Stuff(out, data)
	out = append(out, flagByte)

	n, err := t.port.Write(out)
	if err != nil {
		return err
	}
	if n != len(out) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteFailed, n, len(out))
	}
	return nil
}

// Receive reads one SHTP frame into buf and returns its length. It returns
// (0, nil) when the port has nothing to deliver.
func (t *Transport) Receive(buf []byte) (int, error) {
	escaped := false
	for {
		if len(t.pending) == 0 {
			n, err := t.port.Read(t.chunk[:])
			if n > 0 {
				t.pending = append(t.pending, t.chunk[:n]...)
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return 0, err
			}
			if n == 0 {
				if len(t.frame) > 0 {
					t.frame = t.frame[:0]
					t.open = false
					return 0, ErrTruncatedFrame
				}
				return 0, nil
			}
		}

		b := t.pending[0]
		t.pending = t.pending[1:]

		switch {
		case b == flagByte:
			if t.open && len(t.frame) > 0 {
				frame := t.frame
				t.frame = t.frame[:0]
				// The closing flag may also open the next frame.
				if frame[0] != protocolSHTP {
					monitoring.Debugf("serialport: skipping frame with protocol id 0x%02x", frame[0])
					continue
				}
				payload := frame[1:]
				if len(payload) > len(buf) {
					return 0, fmt.Errorf("%w: %d bytes, buffer %d", ErrFrameTooLarge, len(payload), len(buf))
				}
				return copy(buf, payload), nil
			}
			t.open = true
			t.frame = t.frame[:0]
			escaped = false
		case !t.open:
			// line noise between frames
		case b == escapeByte:
			escaped = true
		default:
			if escaped {
				b ^= escapeXOR
				escaped = false
			}
			if len(t.frame) > len(buf) {
				t.frame = t.frame[:0]
				t.open = false
				return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFrameTooLarge, len(buf))
			}
			t.frame = append(t.frame, b)
		}
	}
}

// Close closes the underlying port.
func (t *Transport) Close() error {
	return t.port.Close()
}

// Stuff appends data to dst with flag and escape bytes escaped.
func Stuff(dst, data []byte) []byte {
	for _, b := range data {
		if b == flagByte || b == escapeByte {
			dst = append(dst, escapeByte, b^escapeXOR)
			continue
		}
		dst = append(dst, b)
	}
	return dst
}
