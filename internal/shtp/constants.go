package shtp

import "fmt"

// Buffer capacities and header size.
const (
	HeaderLength  = 4
	SendBufferLen = 256
	RecvBufferLen = 1024

	// MaxBodyLength is the largest body that fits in the send buffer.
	MaxBodyLength = SendBufferLen - HeaderLength

	// lengthMask keeps the 14 length bits of the header's length field.
	lengthMask = 0x3FFF
)

// Channel is an SHTP logical channel number.
type Channel uint8

const (
	ChannelCommand            Channel = 0
	ChannelExecutable         Channel = 1
	ChannelHubControl         Channel = 2
	ChannelSensorReports      Channel = 3
	ChannelWakeReports        Channel = 4 // reserved, not handled
	ChannelGyroRotationVector Channel = 5 // reserved, not handled

	// NumChannels is the number of channels that carry a sequence counter.
	NumChannels = 6
)

// String returns the channel name used in logs and traces.
func (c Channel) String() string {
	switch c {
	case ChannelCommand:
		return "command"
	case ChannelExecutable:
		return "executable"
	case ChannelHubControl:
		return "hub-control"
	case ChannelSensorReports:
		return "sensor-reports"
	case ChannelWakeReports:
		return "wake-reports"
	case ChannelGyroRotationVector:
		return "gyro-rotation-vector"
	default:
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the six defined channel numbers.
func (c Channel) Valid() bool {
	return c < NumChannels
}

// Command channel report ids.
const (
	CommandRespAdvertise uint8 = 0x00
)

// Executable channel commands and responses.
const (
	ExecutableCmdReset          uint8 = 0x01
	ExecutableRespResetComplete uint8 = 0x01
)

// Hub control channel report ids.
const (
	HubCommandResp       uint8 = 0xF1
	HubCommandReq        uint8 = 0xF2
	HubProductIDResp     uint8 = 0xF8
	HubProductIDReq      uint8 = 0xF9
	HubSetFeatureCommand uint8 = 0xFD

	// hubCommandCodeOffset is the frame offset of the command code in a
	// command response.
	hubCommandCodeOffset = 6
)

// Sensor hub command codes.
const (
	cmdInitialize          uint8 = 0x04
	cmdInitUnsolicited     uint8 = 0x80
	StartupInitUnsolicited       = cmdInitialize | cmdInitUnsolicited
)

// Sensor report ids.
const (
	ReportRotationVector uint8 = 0x05
)

// Sensor input reports start with a 5-byte timestamp, then the report id and
// the report's own sequence number.
const (
	inputReportTimestampLen = 5
	inputReportIDOffset     = inputReportTimestampLen
)
