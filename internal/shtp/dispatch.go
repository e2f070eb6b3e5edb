package shtp

import "fmt"

// DeviceState is everything the protocol remembers about the hub. Both flags
// only ever go from false to true; SoftReset does not clear them.
type DeviceState struct {
	ResetComplete     bool      `json:"reset_complete"`
	ProductIDVerified bool      `json:"product_id_verified"`
	Sequences         Sequencer `json:"sequences"`
}

// Disposition says what Route made of a frame.
type Disposition uint8

const (
	DispositionIgnored Disposition = iota
	DispositionAdvertisement
	DispositionResetComplete
	DispositionCommandResponse
	DispositionStartupUnsolicited
	DispositionProductID
	DispositionRotationVector
	DispositionSensorReport
)

var dispositionNames = [...]string{
	DispositionIgnored:            "ignored",
	DispositionAdvertisement:      "advertisement",
	DispositionResetComplete:      "reset-complete",
	DispositionCommandResponse:    "command-response",
	DispositionStartupUnsolicited: "startup-unsolicited",
	DispositionProductID:          "product-id",
	DispositionRotationVector:     "rotation-vector",
	DispositionSensorReport:       "sensor-report",
}

func (d Disposition) String() string {
	if int(d) < len(dispositionNames) {
		return dispositionNames[d]
	}
	return fmt.Sprintf("disposition(%d)", uint8(d))
}

// Route interprets a received frame and applies its effect to state. Unknown
// channels and report ids are ignored rather than treated as errors so newer
// hub firmware does not break the host.
func Route(state *DeviceState, f Frame) (Disposition, error) {
	switch f.Channel {
	case ChannelSensorReports:
		return routeInputReport(f.Body)
	case ChannelCommand:
		return routeCommand(f.Body)
	case ChannelExecutable:
		return routeExecutable(state, f.Body)
	case ChannelHubControl:
		return routeHubControl(state, f.Body)
	default:
		return DispositionIgnored, nil
	}
}

// routeInputReport only looks at the report id; payload decoding is left to
// higher layers.
func routeInputReport(body []byte) (Disposition, error) {
	if len(body) <= inputReportIDOffset {
		return DispositionIgnored, corruptf("sensor report body of %d bytes has no report id", len(body))
	}
	switch body[inputReportIDOffset] {
	case ReportRotationVector:
		return DispositionRotationVector, nil
	default:
		return DispositionSensorReport, nil
	}
}

func routeCommand(body []byte) (Disposition, error) {
	if len(body) == 0 || body[0] != CommandRespAdvertise {
		return DispositionIgnored, nil
	}
	if err := walkAdvertisement(body, nil); err != nil {
		return DispositionIgnored, err
	}
	return DispositionAdvertisement, nil
}

func routeExecutable(state *DeviceState, body []byte) (Disposition, error) {
	if len(body) == 0 || body[0] != ExecutableRespResetComplete {
		return DispositionIgnored, nil
	}
	state.ResetComplete = true
	return DispositionResetComplete, nil
}

func routeHubControl(state *DeviceState, body []byte) (Disposition, error) {
	if len(body) == 0 {
		return DispositionIgnored, nil
	}
	switch body[0] {
	case HubCommandResp:
		codeAt := hubCommandCodeOffset - HeaderLength
		if len(body) <= codeAt {
			return DispositionIgnored, corruptf("command response body of %d bytes has no command code", len(body))
		}
		// Neither outcome changes state yet.
		if body[codeAt] == StartupInitUnsolicited {
			return DispositionStartupUnsolicited, nil
		}
		return DispositionCommandResponse, nil
	case HubProductIDResp:
		state.ProductIDVerified = true
		return DispositionProductID, nil
	default:
		return DispositionIgnored, nil
	}
}

// AdvertisementTag is one tag-length-value entry of an advertisement.
type AdvertisementTag struct {
	Tag   uint8
	Value []byte
}

// ParseAdvertisement decodes the TLV entries of an advertisement response
// body (report id byte included). Values alias body.
func ParseAdvertisement(body []byte) ([]AdvertisementTag, error) {
	var tags []AdvertisementTag
	err := walkAdvertisement(body, func(tag uint8, value []byte) {
		tags = append(tags, AdvertisementTag{Tag: tag, Value: value})
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// walkAdvertisement steps over the TLV stream that follows the report id,
// calling fn for each entry when fn is non-nil. A length that runs past the
// end of body is reported as a corrupt frame.
func walkAdvertisement(body []byte, fn func(tag uint8, value []byte)) error {
	cursor := 1
	for cursor < len(body) {
		if len(body)-cursor < 2 {
			return corruptf("advertisement tag at offset %d has no length byte", cursor)
		}
		tag := body[cursor]
		n := int(body[cursor+1])
		cursor += 2
		if len(body)-cursor < n {
			return corruptf("advertisement tag 0x%02X length %d overruns body at offset %d", tag, n, cursor)
		}
		if fn != nil {
			fn(tag, body[cursor:cursor+n])
		}
		cursor += n
	}
	return nil
}
