package shtp

import "encoding/binary"

// SetFeatureLength is the size of a set-feature command body.
const SetFeatureLength = 17

// SetFeatureCommand encodes a request for periodic delivery of reportID
// every intervalMs milliseconds. Change sensitivity, batch interval and the
// sensor-specific configuration are left at zero.
func SetFeatureCommand(reportID uint8, intervalMs uint16) [SetFeatureLength]byte {
	micros := uint32(intervalMs) * 1000

	var body [SetFeatureLength]byte
	body[0] = HubSetFeatureCommand
	body[1] = reportID
	// body[2] feature flags, body[3:5] change sensitivity
	binary.LittleEndian.PutUint32(body[5:9], micros)
	// body[9:13] batch interval, body[13:17] sensor-specific config
	return body
}

// EnableReport asks the hub to deliver reportID every intervalMs
// milliseconds. It does not wait for a response.
func (d *Driver) EnableReport(reportID uint8, intervalMs uint16) error {
	body := SetFeatureCommand(reportID, intervalMs)
	_, err := d.SendPacket(ChannelHubControl, body[:])
	return err
}

// EnableRotationVector starts the fused rotation vector report. The hub's
// gyros cap the useful rate at 1 kHz, so intervals below 1 ms gain nothing.
func (d *Driver) EnableRotationVector(intervalMs uint16) error {
	return d.EnableReport(ReportRotationVector, intervalMs)
}
