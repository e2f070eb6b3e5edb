package serialport

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/banshee-data/sensorhub/internal/monitoring"
	"github.com/banshee-data/sensorhub/internal/shtp"
	"github.com/banshee-data/sensorhub/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func wrap(payload []byte) []byte {
	out := []byte{flagByte, protocolSHTP}
	out = Stuff(out, payload)
	return append(out, flagByte)
}

func newSetupTransport(t *testing.T) (*Transport, *TestableSerialPort) {
	t.Helper()
	port := NewTestableSerialPort()
	tr := NewTransport(port, 20*time.Millisecond)
	require.NoError(t, tr.Setup(timeutil.NewMockClock(time.Unix(0, 0))))
	return tr, port
}

func TestStuff(t *testing.T) {
	got := Stuff(nil, []byte{0x01, 0x7E, 0x02, 0x7D, 0x03})
	assert.Equal(t, []byte{0x01, 0x7D, 0x5E, 0x02, 0x7D, 0x5D, 0x03}, got)
}

func TestSetup(t *testing.T) {
	port := NewTestableSerialPort()
	port.AddReadData([]byte{0xAA, 0xBB})
	clock := timeutil.NewMockClock(time.Unix(0, 0))

	tr := NewTransport(port, 25*time.Millisecond)
	require.NoError(t, tr.Setup(clock))

	assert.Equal(t, 25*time.Millisecond, port.ReadTimeout)
	assert.Equal(t, 1, port.InputResets)
	assert.Equal(t, []time.Duration{SettleDelay}, clock.Sleeps())
}

func TestSetupTimeoutError(t *testing.T) {
	port := NewTestableSerialPort()
	port.TimeoutError = errors.New("ioctl failed")
	tr := NewTransport(port, time.Millisecond)
	err := tr.Setup(timeutil.NewMockClock(time.Unix(0, 0)))
	assert.ErrorContains(t, err, "ioctl failed")
}

func TestSendFramesAndStuffs(t *testing.T) {
	tr, port := newSetupTransport(t)

	require.NoError(t, tr.Send([]byte{0x06, 0x00, 0x02, 0x7E, 0xF9, 0x7D}))
	assert.Equal(t, []byte{0x7E, 0x01, 0x06, 0x00, 0x02, 0x7D, 0x5E, 0xF9, 0x7D, 0x5D, 0x7E}, port.Written())
}

func TestSendErrors(t *testing.T) {
	tr, port := newSetupTransport(t)

	port.WriteError = errors.New("unplugged")
	assert.ErrorContains(t, tr.Send([]byte{0x01}), "unplugged")

	port.ShortWrite = true
	assert.ErrorIs(t, tr.Send([]byte{0x01}), ErrWriteFailed)
}

func TestReceive(t *testing.T) {
	payload := []byte{0x05, 0x00, 0x01, 0x7E, 0x7D}

	t.Run("single frame", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.AddReadData(wrap(payload))

		buf := make([]byte, shtp.RecvBufferLen)
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, payload, buf[:n])
	})

	t.Run("split across reads", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.MaxRead = 2
		port.AddReadData(wrap(payload))

		buf := make([]byte, shtp.RecvBufferLen)
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, payload, buf[:n])
	})

	t.Run("back to back with shared flag", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		data := wrap([]byte{0x01})
		data = append(data, protocolSHTP, 0x02, flagByte)
		port.AddReadData(data)

		buf := make([]byte, 16)
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, buf[:n])

		n, err = tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02}, buf[:n])
	})

	t.Run("noise before flag", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.AddReadData(append([]byte{0x11, 0x22}, wrap(payload)...))

		buf := make([]byte, 16)
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, payload, buf[:n])
	})

	t.Run("skips other protocol ids", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.AddReadData([]byte{flagByte, 0x00, 0x42, flagByte})
		port.AddReadData(wrap(payload))

		buf := make([]byte, 16)
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, payload, buf[:n])
	})

	t.Run("idle line", func(t *testing.T) {
		tr, _ := newSetupTransport(t)
		n, err := tr.Receive(make([]byte, 16))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("truncated", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.AddReadData([]byte{flagByte, protocolSHTP, 0x05, 0x00})

		n, err := tr.Receive(make([]byte, 16))
		assert.ErrorIs(t, err, ErrTruncatedFrame)
		assert.Zero(t, n)
	})

	t.Run("too large", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.AddReadData(wrap(make([]byte, 8)))
		port.AddReadData(wrap([]byte{0x09}))

		buf := make([]byte, 4)
		_, err := tr.Receive(buf)
		assert.ErrorIs(t, err, ErrFrameTooLarge)

		// resynchronises on the following frame
		n, err := tr.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x09}, buf[:n])
	})

	t.Run("read error", func(t *testing.T) {
		tr, port := newSetupTransport(t)
		port.ReadError = errors.New("device gone")
		_, err := tr.Receive(make([]byte, 16))
		assert.ErrorContains(t, err, "device gone")
	})
}

func TestTransportDrivesInit(t *testing.T) {
	port := NewTestableSerialPort()
	tr := NewTransport(port, 0)
	d := shtp.NewDriver(tr)
	clock := timeutil.NewMockClock(time.Unix(0, 0))

	require.NoError(t, tr.Setup(clock))
	port.AddReadData(wrap([]byte{0x05, 0x00, 0x01, 0x01, shtp.ExecutableRespResetComplete}))

	n, err := d.HandleOneMessage()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, d.State().ResetComplete)
}

func TestClose(t *testing.T) {
	port := NewTestableSerialPort()
	tr := NewTransport(port, 0)
	require.NoError(t, tr.Close())
	assert.True(t, port.Closed)
}
