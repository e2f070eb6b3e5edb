package shtp

import (
	"encoding/binary"
	"fmt"
)

// Frame is a parsed view of one received frame. Body aliases the buffer the
// frame was parsed from and is only valid until that buffer is reused.
type Frame struct {
	Length   uint16
	Channel  Channel
	Sequence uint8
	Body     []byte
}

// ReportID returns the first body byte, which identifies the report on every
// channel except sensor reports. ok is false for an empty body.
func (f Frame) ReportID() (id uint8, ok bool) {
	if len(f.Body) == 0 {
		return 0, false
	}
	return f.Body[0], true
}

// BuildFrame writes the header and body into buf and returns the frame
// length. It never truncates: a body that does not fit returns
// ErrBodyTooLarge and leaves buf untouched.
func BuildFrame(buf []byte, ch Channel, seq uint8, body []byte) (int, error) {
	if !ch.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, uint8(ch))
	}
	n := HeaderLength + len(body)
	if n > len(buf) {
		return 0, fmt.Errorf("%w: %d bytes, capacity %d", ErrBodyTooLarge, n, len(buf))
	}

	binary.LittleEndian.PutUint16(buf[0:2], uint16(n))
	buf[2] = byte(ch)
	buf[3] = seq
	copy(buf[HeaderLength:n], body)
	return n, nil
}

// ParseFrame splits the first receivedLen bytes of buf into header and body.
// The header's declared length must equal receivedLen; anything else means
// the transport handed over a partial or merged frame.
func ParseFrame(buf []byte, receivedLen int) (Frame, error) {
	if receivedLen < HeaderLength {
		return Frame{}, corruptf("%d bytes is shorter than the header", receivedLen)
	}
	if receivedLen > len(buf) {
		return Frame{}, corruptf("%d bytes exceeds buffer capacity %d", receivedLen, len(buf))
	}

	declared := binary.LittleEndian.Uint16(buf[0:2]) & lengthMask
	if int(declared) != receivedLen {
		return Frame{}, corruptf("header declares %d bytes, received %d", declared, receivedLen)
	}

	return Frame{
		Length:   declared,
		Channel:  Channel(buf[2]),
		Sequence: buf[3],
		Body:     buf[HeaderLength:receivedLen],
	}, nil
}
