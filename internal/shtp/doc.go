// Package shtp implements the host side of the Sensor Hub Transport Protocol
// (SHTP) used by BNO080-family inertial sensor hubs.
//
// The package covers four things: the 4-byte frame header codec, the
// per-channel sequence counters, routing of received frames by channel and
// report id, and the start-up handshake (soft reset, advertisement drain,
// product-ID verification). The physical bus is supplied by the caller as a
// Transport and waits are supplied as a Delay.
//
// # Frame layout
//
//	byte 0   length, low byte
//	byte 1   length, high byte (top two bits reserved)
//	byte 2   channel number
//	byte 3   sequence number
//	byte 4.. body
//
// The length counts the header. A Driver is meant to be driven from a single
// goroutine: it holds no lock and owns its Transport exclusively.
package shtp
