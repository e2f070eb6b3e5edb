package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptionsNormaliseDefaults(t *testing.T) {
	opts, err := PortOptions{}.Normalise()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "N"}, opts)
}

func TestPortOptionsNormalise(t *testing.T) {
	tests := []struct {
		name    string
		in      PortOptions
		want    PortOptions
		wantErr bool
	}{
		{"lowercase even parity", PortOptions{BaudRate: 115200, Parity: "even"}, PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "E"}, false},
		{"odd with padding", PortOptions{Parity: " o "}, PortOptions{BaudRate: DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "O"}, false},
		{"two stop bits", PortOptions{StopBits: 2, DataBits: 7}, PortOptions{BaudRate: DefaultBaudRate, DataBits: 7, StopBits: 2, Parity: "N"}, false},
		{"nonstandard baud", PortOptions{BaudRate: 12345}, PortOptions{}, true},
		{"data bits too small", PortOptions{DataBits: 4}, PortOptions{}, true},
		{"data bits too large", PortOptions{DataBits: 9}, PortOptions{}, true},
		{"three stop bits", PortOptions{StopBits: 3}, PortOptions{}, true},
		{"mark parity", PortOptions{Parity: "M"}, PortOptions{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalise()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortOptionsEqual(t *testing.T) {
	assert.True(t, PortOptions{}.Equal(PortOptions{BaudRate: DefaultBaudRate, Parity: "none"}))
	assert.False(t, PortOptions{BaudRate: 115200}.Equal(PortOptions{}))
	assert.False(t, PortOptions{DataBits: 9}.Equal(PortOptions{DataBits: 9}))
}

func TestPortOptionsSerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 921600, StopBits: 2, Parity: "E"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 921600, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	_, err = PortOptions{Parity: "X"}.SerialMode()
	assert.Error(t, err)
}

func TestOpenNonexistentPort(t *testing.T) {
	_, err := Open("/dev/nonexistent-serial-port-12345", PortOptions{})
	assert.Error(t, err)
}

func TestOpenRejectsBadOptions(t *testing.T) {
	_, err := Open("/dev/null", PortOptions{DataBits: 12})
	assert.ErrorContains(t, err, "invalid data bits")
}
