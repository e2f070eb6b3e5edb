// Package serialport carries SHTP frames over a UART link to the sensor hub.
package serialport

import (
	"io"
	"time"
)

// SerialPorter is the part of a serial port the transport needs. go.bug.st/serial
// ports satisfy it, as does TestableSerialPort.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutSerialPorter is a SerialPorter whose reads can be bounded. Setup
// applies the configured read timeout when the port supports it.
type TimeoutSerialPorter interface {
	SerialPorter
	SetReadTimeout(timeout time.Duration) error
}

// inputResetter discards unread input. go.bug.st/serial ports implement it.
type inputResetter interface {
	ResetInputBuffer() error
}
