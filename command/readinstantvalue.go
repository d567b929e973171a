package command

import "fmt"

// ReadInstantValue is command 0x2B: read live electrical measurements. Not
// supported by the Old generation.
type ReadInstantValue struct{}

// ParameterGroup selects which instant-value group a request asks for.
// Only ParameterGroupBasic is decoded by this catalog; other groups are
// passed through raw.
type ParameterGroup byte

const (
	ParameterGroupBasic       ParameterGroup = 0x00
	ParameterGroupPhaseAngles ParameterGroup = 0x10
	ParameterGroupTimeAngles  ParameterGroup = 0x11
	ParameterGroupTotalPower  ParameterGroup = 0x12
)

// ReadInstantValueRequest is the 1-byte request payload.
type ReadInstantValueRequest struct {
	Group ParameterGroup
}

// ReadInstantValueResponse is a tagged variant over generation, mirroring
// ReadStatusResponse. RawPayload carries the undecoded bytes whenever
// Group is not ParameterGroupBasic, for both variants.
type ReadInstantValueResponse struct {
	Group      ParameterGroup
	Transition *ReadInstantValueResponseTransition
	New        *ReadInstantValueResponseNew
	RawPayload []byte
}

func (ReadInstantValueResponse) isResponse() {}

// ReadInstantValueResponseTransition is the Transition-generation basic
// group response: 25 bytes with 2-byte currents, or 28 bytes with 3-byte
// currents when the meter reports 100A support.
type ReadInstantValueResponseTransition struct {
	VoltageTransformCoeff uint16
	CurrentTransformCoeff uint16
	ActivePower           uint16
	ReactivePower          uint16
	Frequency              uint16
	CosPhiRaw              uint16
	VoltageA, VoltageB, VoltageC uint16
	CurrentA, CurrentB, CurrentC uint32 // 2 or 3 bytes on the wire
	Is100ASupport                bool
}

// ReadInstantValueResponseNew is the New-generation basic group response:
// always 30 bytes, with 24-bit power and current fields.
type ReadInstantValueResponseNew struct {
	VoltageTransformCoeff uint16
	CurrentTransformCoeff uint16
	ActivePower            uint32 // 3-byte field
	ReactivePower          uint32 // 3-byte field
	Frequency              uint16
	CosPhiRaw              uint16
	VoltageA, VoltageB, VoltageC uint16
	CurrentA, CurrentB, CurrentC uint32 // 3-byte fields
}

// cosPhi converts the raw field to a signed power-factor value in
// [-1.000, +1.000]: values at or above 0x8000 are negative, biased by
// that offset.
func cosPhi(raw uint16) float64 {
	if raw >= 0x8000 {
		return -float64(raw-0x8000) / 1000.0
	}
	return float64(raw) / 1000.0
}

func (r ReadInstantValueResponseTransition) CosPhi() float64 { return cosPhi(r.CosPhiRaw) }
func (r ReadInstantValueResponseNew) CosPhi() float64        { return cosPhi(r.CosPhiRaw) }

func (ReadInstantValue) Code() byte { return CodeReadInstantValue }

func (ReadInstantValue) EncodeRequest(gen Generation, dst []byte) (int, error) {
	return EncodeReadInstantValueRequest(ParameterGroupBasic, dst)
}

// EncodeReadInstantValueRequest encodes an explicit parameter group.
func EncodeReadInstantValueRequest(group ParameterGroup, dst []byte) (int, error) {
	if len(dst) < 1 {
		return 0, ErrRequestBufferTooSmall
	}
	dst[0] = byte(group)
	return 1, nil
}

func (ReadInstantValue) DecodeResponse(gen Generation, payload []byte) (Response, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: read-instant-value response is empty", ErrPayloadSize)
	}
	group := ParameterGroup(payload[0])
	if group != ParameterGroupBasic {
		return ReadInstantValueResponse{Group: group, RawPayload: append([]byte{}, payload...)}, nil
	}

	n := len(payload)
	switch n {
	case 25, 28:
		return ReadInstantValueResponse{Group: group, Transition: decodeReadInstantValueTransition(payload)}, nil
	case 30:
		return ReadInstantValueResponse{Group: group, New: decodeReadInstantValueNew(payload)}, nil
	default:
		return nil, fmt.Errorf("%w: read-instant-value response is %d bytes, want 25, 28, or 30", ErrPayloadSize, n)
	}
}

func decodeReadInstantValueTransition(payload []byte) *ReadInstantValueResponseTransition {
	is100A := len(payload) == 28
	r := &ReadInstantValueResponseTransition{
		VoltageTransformCoeff: le16(payload[1:3]),
		CurrentTransformCoeff: le16(payload[3:5]),
		ActivePower:           le16(payload[5:7]),
		ReactivePower:         le16(payload[7:9]),
		Frequency:             le16(payload[9:11]),
		CosPhiRaw:             le16(payload[11:13]),
		VoltageA:              le16(payload[13:15]),
		VoltageB:              le16(payload[15:17]),
		VoltageC:              le16(payload[17:19]),
		Is100ASupport:         is100A,
	}
	if is100A {
		r.CurrentA = le24(payload[19:22])
		r.CurrentB = le24(payload[22:25])
		r.CurrentC = le24(payload[25:28])
	} else {
		r.CurrentA = uint32(le16(payload[19:21]))
		r.CurrentB = uint32(le16(payload[21:23]))
		r.CurrentC = uint32(le16(payload[23:25]))
	}
	return r
}

func decodeReadInstantValueNew(payload []byte) *ReadInstantValueResponseNew {
	return &ReadInstantValueResponseNew{
		VoltageTransformCoeff: le16(payload[1:3]),
		CurrentTransformCoeff: le16(payload[3:5]),
		ActivePower:           le24(payload[5:8]),
		ReactivePower:         le24(payload[8:11]),
		Frequency:             le16(payload[11:13]),
		CosPhiRaw:             le16(payload[13:15]),
		VoltageA:              le16(payload[15:17]),
		VoltageB:              le16(payload[17:19]),
		VoltageC:              le16(payload[19:21]),
		CurrentA:              le24(payload[21:24]),
		CurrentB:              le24(payload[24:27]),
		CurrentC:              le24(payload[27:30]),
	}
}

func (ReadInstantValue) SupportedFor(gen Generation) bool { return gen != GenerationOld }

func (ReadInstantValue) MinRequestSize(gen Generation) int { return 1 }

func (ReadInstantValue) ResponseSizeRange(gen Generation) (int, int) {
	if gen == GenerationUnknown {
		return 25, 30
	}
	if gen == GenerationNew {
		return 30, 30
	}
	return 25, 28
}

func (ReadInstantValue) RequiresPassword() bool { return false }

// EncodeReadInstantValueTransitionResponse and
// EncodeReadInstantValueNewResponse serialize the two basic-group response
// variants, used by the server's default ReadInstantValue handler.

func EncodeReadInstantValueTransitionResponse(r ReadInstantValueResponseTransition, dst []byte) (int, error) {
	size := 25
	if r.Is100ASupport {
		size = 28
	}
	if len(dst) < size {
		return 0, ErrResponseBufferTooSmall
	}
	dst[0] = byte(ParameterGroupBasic)
	putLE16(dst[1:3], r.VoltageTransformCoeff)
	putLE16(dst[3:5], r.CurrentTransformCoeff)
	putLE16(dst[5:7], r.ActivePower)
	putLE16(dst[7:9], r.ReactivePower)
	putLE16(dst[9:11], r.Frequency)
	putLE16(dst[11:13], r.CosPhiRaw)
	putLE16(dst[13:15], r.VoltageA)
	putLE16(dst[15:17], r.VoltageB)
	putLE16(dst[17:19], r.VoltageC)
	if r.Is100ASupport {
		putLE24(dst[19:22], r.CurrentA)
		putLE24(dst[22:25], r.CurrentB)
		putLE24(dst[25:28], r.CurrentC)
	} else {
		putLE16(dst[19:21], uint16(r.CurrentA))
		putLE16(dst[21:23], uint16(r.CurrentB))
		putLE16(dst[23:25], uint16(r.CurrentC))
	}
	return size, nil
}

func EncodeReadInstantValueNewResponse(r ReadInstantValueResponseNew, dst []byte) (int, error) {
	if len(dst) < 30 {
		return 0, ErrResponseBufferTooSmall
	}
	dst[0] = byte(ParameterGroupBasic)
	putLE16(dst[1:3], r.VoltageTransformCoeff)
	putLE16(dst[3:5], r.CurrentTransformCoeff)
	putLE24(dst[5:8], r.ActivePower)
	putLE24(dst[8:11], r.ReactivePower)
	putLE16(dst[11:13], r.Frequency)
	putLE16(dst[13:15], r.CosPhiRaw)
	putLE16(dst[15:17], r.VoltageA)
	putLE16(dst[17:19], r.VoltageB)
	putLE16(dst[19:21], r.VoltageC)
	putLE24(dst[21:24], r.CurrentA)
	putLE24(dst[24:27], r.CurrentB)
	putLE24(dst[27:30], r.CurrentC)
	return 30, nil
}
