package protocol

import "errors"

// FrameError-kind sentinels (C1/C2). Wrapped with fmt.Errorf("...: %w", ...)
// by the functions that detect them, so callers can errors.Is against these.
var (
	ErrFrameBounds = errors.New("frame length out of bounds")
	ErrFrameMarker = errors.New("missing or malformed framing bytes")
	ErrStuffing    = errors.New("invalid byte-stuffing sequence")
	ErrCRC         = errors.New("crc mismatch")
)

// DecodeError-kind sentinels.
var (
	ErrPayloadSize = errors.New("payload length outside expected range")
	ErrFieldRange  = errors.New("field value outside contract range")
)
