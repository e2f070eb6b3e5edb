package shtp

import (
	"fmt"
	"time"

	"github.com/banshee-data/sensorhub/internal/monitoring"
)

// Start-up waits. The hub needs time after a reset before it answers, and the
// drain loop yields between reads.
const (
	ResetSettleDelay = 50 * time.Millisecond
	DrainYieldDelay  = 1 * time.Millisecond
)

// Handler observes each routed frame. The frame's body aliases the driver's
// receive buffer and must not be retained after the call returns.
type Handler func(f Frame, d Disposition)

// Driver speaks SHTP to one sensor hub over a Transport. It is not safe for
// concurrent use; callers sharing a Driver must serialize access themselves.
type Driver struct {
	transport Transport
	state     DeviceState
	handler   Handler

	sendBuf [SendBufferLen]byte
	recvBuf [RecvBufferLen]byte
}

// NewDriver returns a Driver that owns t. No I/O happens until Init.
func NewDriver(t Transport) *Driver {
	return &Driver{transport: t}
}

// State returns a copy of the current device state.
func (d *Driver) State() DeviceState {
	return d.state
}

// SetHandler installs h to be called after every successfully routed frame.
// Pass nil to remove it.
func (d *Driver) SetHandler(h Handler) {
	d.handler = h
}

// Init brings the hub up: transport setup, soft reset, draining the
// unsolicited advertisement burst, then product-ID verification. It stops at
// the first fatal error and does not retry.
func (d *Driver) Init(delay Delay) error {
	// On start-up the hub sends its full advertisement unsolicited.
	if err := d.transport.Setup(delay); err != nil {
		return &TransportError{Op: "setup", Err: err}
	}
	if err := d.SoftReset(); err != nil {
		return err
	}
	delay.Sleep(ResetSettleDelay)
	d.EatOneMessage()
	delay.Sleep(ResetSettleDelay)
	d.EatAllMessages(delay)

	if err := d.VerifyProductID(); err != nil {
		return err
	}
	monitoring.Logf("shtp: sensor hub initialised (reset_complete=%t)", d.state.ResetComplete)
	return nil
}

// SoftReset asks the hub to reset. It does not clear ResetComplete or
// ProductIDVerified.
func (d *Driver) SoftReset() error {
	_, err := d.SendPacket(ChannelExecutable, []byte{ExecutableCmdReset})
	return err
}

// SendPacket frames body on ch with the channel's next sequence number and
// hands it to the transport. It returns the frame length.
func (d *Driver) SendPacket(ch Channel, body []byte) (int, error) {
	if !ch.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, uint8(ch))
	}
	if HeaderLength+len(body) > len(d.sendBuf) {
		return 0, fmt.Errorf("%w: %d byte body, max %d", ErrBodyTooLarge, len(body), MaxBodyLength)
	}

	seq := d.state.Sequences.Next(ch)
	n, err := BuildFrame(d.sendBuf[:], ch, seq, body)
	if err != nil {
		return 0, err
	}
	monitoring.Debugf("shtp: send %s seq=%d len=%d", ch, seq, n)
	if err := d.transport.Send(d.sendBuf[:n]); err != nil {
		return 0, &TransportError{Op: "send", Err: err}
	}
	return n, nil
}

// ReceivePacket reads one frame into the receive buffer and returns its
// length. The frame is not parsed.
func (d *Driver) ReceivePacket() (int, error) {
	d.recvBuf[0] = 0
	d.recvBuf[1] = 0

	n, err := d.transport.Receive(d.recvBuf[:])
	if err != nil {
		return 0, &TransportError{Op: "receive", Err: err}
	}
	return n, nil
}

// SendAndReceive sends body on ch and then synchronously reads one frame.
func (d *Driver) SendAndReceive(ch Channel, body []byte) (int, error) {
	if _, err := d.SendPacket(ch, body); err != nil {
		return 0, err
	}
	return d.ReceivePacket()
}

// EatOneMessage receives and discards one frame. A receive error counts as
// an empty read.
func (d *Driver) EatOneMessage() int {
	n, err := d.ReceivePacket()
	if err != nil {
		monitoring.Debugf("shtp: discarding receive error: %v", err)
		return 0
	}
	return n
}

// EatAllMessages discards frames until a receive comes back empty, sleeping
// briefly between reads. Errors end the drain like an empty read would, so a
// flaky read never aborts start-up.
func (d *Driver) EatAllMessages(delay Delay) {
	for {
		if d.EatOneMessage() == 0 {
			return
		}
		delay.Sleep(DrainYieldDelay)
	}
}

// HandleOneMessage receives one frame and routes it. It returns the number
// of frames received (0 or 1). Receive errors are swallowed and reported as
// zero frames; a frame that arrived but failed validation is counted and
// its error returned.
func (d *Driver) HandleOneMessage() (int, error) {
	n, err := d.ReceivePacket()
	if err != nil {
		monitoring.Debugf("shtp: receive failed: %v", err)
		return 0, nil
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := d.HandleReceivedPacket(n); err != nil {
		return 1, err
	}
	return 1, nil
}

// HandleReceivedPacket parses and routes the first n bytes of the receive
// buffer.
func (d *Driver) HandleReceivedPacket(n int) (Disposition, error) {
	f, err := ParseFrame(d.recvBuf[:], n)
	if err != nil {
		return DispositionIgnored, err
	}
	disp, err := Route(&d.state, f)
	if err != nil {
		return disp, err
	}
	monitoring.Debugf("shtp: recv %s seq=%d len=%d -> %s", f.Channel, f.Sequence, f.Length, disp)
	if d.handler != nil {
		d.handler(f, disp)
	}
	return disp, nil
}

// VerifyProductID requests the product ID and checks that the reply is a
// product-ID response.
func (d *Driver) VerifyProductID() error {
	n, err := d.SendAndReceive(ChannelHubControl, []byte{HubProductIDReq, 0})
	if err != nil {
		return err
	}

	var id uint8
	if n > HeaderLength {
		id = d.recvBuf[HeaderLength]
		if id == HubProductIDResp {
			d.state.ProductIDVerified = true
			return nil
		}
	}
	return &ChipIdentityError{ID: id}
}
