package protocol

import "fmt"

// Packet is the structured, un-stuffed view of one transaction's worth of
// wire data: header, payload, and CRC.
type Packet struct {
	Encoded bool // params bit 7: payload is XOR-scrambled
	Version bool // params bit 6: 0 = simple, 1 = complex
	Request bool // params bit 5: true = request (direction=1), false = response
	Dest    uint16
	Src     uint16
	Command byte
	Auth    uint32 // password on a request, device status on a response
	Payload []byte
	CRC     byte // populated by Pack / verified by Unpack; ignored otherwise
}

func (p *Packet) params() byte {
	v := byte(len(p.Payload)) & paramsLengthMask
	if p.Encoded {
		v |= paramsEncodedBit
	}
	if p.Version {
		v |= paramsVersionBit
	}
	if p.Request {
		v |= paramsDirectionBit
	}
	return v
}

func paramsDecode(b byte) (encoded, version, request bool, length int) {
	return b&paramsEncodedBit != 0, b&paramsVersionBit != 0, b&paramsDirectionBit != 0, int(b & paramsLengthMask)
}

// Pack serializes p into a framed, byte-stuffed wire frame: start bytes,
// stuffed body (header+payload+CRC), stop byte.
func Pack(p *Packet) ([]byte, error) {
	if len(p.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload length %d exceeds %d", ErrPayloadSize, len(p.Payload), MaxPayloadSize)
	}

	body := make([]byte, HeaderSize+len(p.Payload))
	body[0] = p.params()
	body[1] = 0 // reserve
	PutUint16(body[2:4], p.Dest)
	PutUint16(body[4:6], p.Src)
	body[6] = p.Command
	PutUint32(body[7:11], p.Auth)
	copy(body[HeaderSize:], p.Payload)

	crc := CRC8(body)
	body = append(body, crc)
	p.CRC = crc

	stuffed := Stuff(body)
	if len(stuffed)+3 > MaxFrameSize {
		return nil, fmt.Errorf("%w: stuffed frame would be %d bytes, max %d", ErrFrameBounds, len(stuffed)+3, MaxFrameSize)
	}

	frame := make([]byte, 0, len(stuffed)+3)
	frame = append(frame, StartMarker, StartStop)
	frame = append(frame, stuffed...)
	frame = append(frame, Stop)
	return frame, nil
}

// Unpack parses a raw frame back into a Packet, validating framing bytes,
// length bounds, and CRC.
func Unpack(frame []byte) (*Packet, error) {
	l := len(frame)
	if l < MinFrameSize || l > MaxFrameSize {
		return nil, fmt.Errorf("%w: length %d", ErrFrameBounds, l)
	}
	if frame[0] != StartMarker || frame[1] != StartStop || frame[l-1] != Stop {
		return nil, fmt.Errorf("%w: frame %x", ErrFrameMarker, frame)
	}

	body, err := Unstuff(frame[2 : l-1])
	if err != nil {
		return nil, err
	}
	if len(body) < HeaderSize+CRCSize {
		return nil, fmt.Errorf("%w: unstuffed body %d bytes, need at least %d", ErrFrameBounds, len(body), HeaderSize+CRCSize)
	}

	encoded, version, request, n := paramsDecode(body[0])
	if HeaderSize+n+CRCSize > len(body) {
		// The declared length puts the checksum byte past the end of the
		// body, so the frame fails its integrity check.
		return nil, fmt.Errorf("%w: declared payload length %d leaves no checksum byte in a %d-byte body", ErrCRC, n, len(body))
	}

	payload := make([]byte, n)
	copy(payload, body[HeaderSize:HeaderSize+n])

	gotCRC := body[HeaderSize+n]
	wantCRC := CRC8(body[:HeaderSize+n])
	if gotCRC != wantCRC {
		return nil, fmt.Errorf("%w: got 0x%02x want 0x%02x", ErrCRC, gotCRC, wantCRC)
	}

	return &Packet{
		Encoded: encoded,
		Version: version,
		Request: request,
		Dest:    Uint16(body[2:4]),
		Src:     Uint16(body[4:6]),
		Command: body[6],
		Auth:    Uint32(body[7:11]),
		Payload: payload,
		CRC:     gotCRC,
	}, nil
}
