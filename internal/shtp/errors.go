package shtp

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("shtp: transport failure")

	// ErrInvalidChipIdentity is returned when product-ID verification
	// receives a frame that is not a product-ID response.
	ErrInvalidChipIdentity = errors.New("shtp: invalid chip identity")

	// ErrInvalidFirmwareVersion is reserved for firmware version checks. No
	// code path returns it yet.
	ErrInvalidFirmwareVersion = errors.New("shtp: unsupported firmware version")

	// ErrCorruptFrame reports a received frame whose declared length or
	// inner structure does not match the bytes actually read.
	ErrCorruptFrame = errors.New("shtp: corrupt frame")

	// ErrBodyTooLarge is returned when an outgoing body does not fit the
	// send buffer.
	ErrBodyTooLarge = errors.New("shtp: body too large for send buffer")

	// ErrInvalidChannel is returned when sending on a channel number outside 0..5.
	ErrInvalidChannel = errors.New("shtp: invalid channel")
)

// TransportError wraps an error reported by the Transport. It is propagated
// as-is and never retried.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shtp: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match any transport failure.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ChipIdentityError carries the identity byte read during product-ID
// verification, or 0 when the response had no body.
type ChipIdentityError struct {
	ID uint8
}

func (e *ChipIdentityError) Error() string {
	return fmt.Sprintf("%v: got report id 0x%02X, want 0x%02X", ErrInvalidChipIdentity, e.ID, HubProductIDResp)
}

func (e *ChipIdentityError) Unwrap() error { return ErrInvalidChipIdentity }

func corruptf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptFrame, fmt.Sprintf(format, v...))
}
