package serialport

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is the rate the hub runs at in UART-SHTP mode.
const DefaultBaudRate = 3000000

var standardBaudRates = map[int]bool{
	9600: true, 19200: true, 38400: true, 57600: true, 115200: true,
	230400: true, 460800: true, 921600: true, 1000000: true, 3000000: true,
}

var parityAliases = map[string]string{
	"": "N", "N": "N", "NONE": "N",
	"E": "E", "EVEN": "E",
	"O": "O", "ODD": "O",
}

var parityModes = map[string]serial.Parity{
	"N": serial.NoParity,
	"E": serial.EvenParity,
	"O": serial.OddParity,
}

// PortOptions are the line settings used to open the hub's serial port. The
// zero value means 3 Mbaud 8N1.
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// Normalise fills in defaults and canonicalises parity to N, E or O. It
// rejects settings the hub or the serial library cannot use.
func (o PortOptions) Normalise() (PortOptions, error) {
	n := o
	if n.BaudRate <= 0 {
		n.BaudRate = DefaultBaudRate
	}
	if !standardBaudRates[n.BaudRate] {
		return n, fmt.Errorf("unsupported baud rate %d", n.BaudRate)
	}

	if n.DataBits == 0 {
		n.DataBits = 8
	}
	if n.DataBits < 5 || n.DataBits > 8 {
		return n, fmt.Errorf("invalid data bits %d: must be between 5 and 8", n.DataBits)
	}

	if n.StopBits == 0 {
		n.StopBits = 1
	}
	if n.StopBits != 1 && n.StopBits != 2 {
		return n, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", n.StopBits)
	}

	parity, ok := parityAliases[strings.ToUpper(strings.TrimSpace(n.Parity))]
	if !ok {
		return n, fmt.Errorf("unsupported parity %q: expected N, E, or O", o.Parity)
	}
	n.Parity = parity
	return n, nil
}

// Equal compares the normalised forms. Invalid options are never equal.
func (o PortOptions) Equal(other PortOptions) bool {
	a, err := o.Normalise()
	if err != nil {
		return false
	}
	b, err := other.Normalise()
	return err == nil && a == b
}

// SerialMode converts the options for serial.Open.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	n, err := o.Normalise()
	if err != nil {
		return nil, err
	}
	stop := serial.OneStopBit
	if n.StopBits == 2 {
		stop = serial.TwoStopBits
	}
	return &serial.Mode{
		BaudRate: n.BaudRate,
		DataBits: n.DataBits,
		Parity:   parityModes[n.Parity],
		StopBits: stop,
	}, nil
}

// Open opens the serial device at path.
func Open(path string, opts PortOptions) (serial.Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return port, nil
}
