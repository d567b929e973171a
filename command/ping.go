package command

import "fmt"

// Ping is command 0x01: a liveness check, supported by every generation.
type Ping struct{}

// PingResponse is the 4-byte response payload: firmware version and the
// responding device's own address.
type PingResponse struct {
	FirmwareVersion uint16
	DeviceAddress   uint16
}

func (PingResponse) isResponse() {}

func (Ping) Code() byte { return CodePing }

func (Ping) EncodeRequest(gen Generation, dst []byte) (int, error) {
	return 0, nil
}

func (Ping) DecodeResponse(gen Generation, payload []byte) (Response, error) {
	if len(payload) != 4 {
		return nil, fmt.Errorf("%w: ping response is %d bytes, want 4", ErrPayloadSize, len(payload))
	}
	return PingResponse{
		FirmwareVersion: le16(payload[0:2]),
		DeviceAddress:   le16(payload[2:4]),
	}, nil
}

func (Ping) SupportedFor(gen Generation) bool { return true }

func (Ping) MinRequestSize(gen Generation) int { return 0 }

func (Ping) ResponseSizeRange(gen Generation) (int, int) { return 4, 4 }

func (Ping) RequiresPassword() bool { return false }

// EncodePingResponse serializes a PingResponse's fields directly, used by
// the server's default Ping handler.
func EncodePingResponse(firmwareVersion, deviceAddress uint16, dst []byte) (int, error) {
	if len(dst) < 4 {
		return 0, ErrResponseBufferTooSmall
	}
	putLE16(dst[0:2], firmwareVersion)
	putLE16(dst[2:4], deviceAddress)
	return 4, nil
}
