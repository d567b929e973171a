package command

import "fmt"

// GetInfo is command 0x30: read static device identification, supported by
// every generation with a generation-dependent response size.
type GetInfo struct{}

// GetInfoResponse is the common GetInfo payload shape. The 27-byte
// Old/Transition layout carries none of Interface3Type, Interface4Type, or
// BatteryVoltage; New's 28-byte layout adds Interface3Type; New's 31-byte
// layout additionally adds Interface4Type and BatteryVoltage.
type GetInfoResponse struct {
	BoardID             byte
	FirmwareVersion     uint16
	FirmwareCRC         uint16
	WorkTime            uint32
	SleepTime           uint32
	GroupID             byte
	Flags               byte
	ActiveTariffCRC     uint16
	PlannedTariffCRC    uint16
	TimeSinceCorrection uint32
	Interface1Type      byte
	Interface2Type      byte
	Interface3Type      byte // present when len(payload) >= 28
	HasInterface3       bool
	Interface4Type      byte // present only in the 31-byte variant
	BatteryVoltage      uint16
	HasBattery          bool
	Generation          Generation
}

func (GetInfoResponse) isResponse() {}

// Has100ASupport reports flags bit 7.
func (r GetInfoResponse) Has100ASupport() bool { return r.Flags&0x80 != 0 }

// HasStreetLighting reports flags bit 6.
func (r GetInfoResponse) HasStreetLighting() bool { return r.Flags&0x40 != 0 }

func (GetInfo) Code() byte { return CodeGetInfo }

func (GetInfo) EncodeRequest(gen Generation, dst []byte) (int, error) { return 0, nil }

func (GetInfo) DecodeResponse(gen Generation, payload []byte) (Response, error) {
	n := len(payload)
	if n != 27 && n != 28 && n != 31 {
		return nil, fmt.Errorf("%w: get-info response is %d bytes, want 27, 28, or 31", ErrPayloadSize, n)
	}

	r := GetInfoResponse{
		BoardID:             payload[0],
		FirmwareVersion:     le16(payload[1:3]),
		FirmwareCRC:         le16(payload[3:5]),
		WorkTime:            le32(payload[5:9]),
		SleepTime:           le32(payload[9:13]),
		GroupID:             payload[13],
		Flags:               payload[14],
		ActiveTariffCRC:     le16(payload[15:17]),
		PlannedTariffCRC:    le16(payload[17:19]),
		TimeSinceCorrection: le32(payload[19:23]),
		// payload[23:25] is the reserved field.
		Interface1Type: payload[25],
		Interface2Type: payload[26],
		Generation:      DetermineGenerationFromResponseSize(n),
	}

	if n >= 28 {
		r.Interface3Type = payload[27]
		r.HasInterface3 = true
	}
	if n == 31 {
		r.Interface4Type = payload[28]
		r.BatteryVoltage = le16(payload[29:31])
		r.HasBattery = true
	}

	return r, nil
}

func (GetInfo) SupportedFor(gen Generation) bool { return true }

func (GetInfo) MinRequestSize(gen Generation) int { return 0 }

func (GetInfo) ResponseSizeRange(gen Generation) (int, int) {
	if gen == GenerationUnknown {
		return 27, 31
	}
	if gen == GenerationNew {
		return 28, 31
	}
	return 27, 27
}

func (GetInfo) RequiresPassword() bool { return false }

// EncodeGetInfoResponse serializes a GetInfoResponse according to its own
// HasInterface3/HasBattery flags, used by the server's default GetInfo
// handler.
func EncodeGetInfoResponse(r GetInfoResponse, dst []byte) (int, error) {
	size := 27
	if r.HasInterface3 {
		size = 28
	}
	if r.HasBattery {
		size = 31
	}
	if len(dst) < size {
		return 0, ErrResponseBufferTooSmall
	}

	dst[0] = r.BoardID
	putLE16(dst[1:3], r.FirmwareVersion)
	putLE16(dst[3:5], r.FirmwareCRC)
	putLE32(dst[5:9], r.WorkTime)
	putLE32(dst[9:13], r.SleepTime)
	dst[13] = r.GroupID
	dst[14] = r.Flags
	putLE16(dst[15:17], r.ActiveTariffCRC)
	putLE16(dst[17:19], r.PlannedTariffCRC)
	putLE32(dst[19:23], r.TimeSinceCorrection)
	putLE16(dst[23:25], 0) // reserve
	dst[25] = r.Interface1Type
	dst[26] = r.Interface2Type

	if size >= 28 {
		dst[27] = r.Interface3Type
	}
	if size == 31 {
		dst[28] = r.Interface4Type
		putLE16(dst[29:31], r.BatteryVoltage)
	}
	return size, nil
}
