package protocol

// Wire-format constants shared by the byte codec (C1) and frame codec (C2).
// All higher layers depend on this file, never on magic numbers of their own.
const (
	// Framing bytes. A frame on the wire is StartMarker, StartStop, <stuffed body>, Stop.
	StartMarker = 0x73
	StartStop   = 0x55 // second start byte and the lone stop byte share a value
	Stop        = 0x55

	// Escape marker used by byte-stuffing; doubles as StartMarker.
	EscapeMarker = 0x73

	// Stuffing substitution bytes that follow EscapeMarker.
	escapedStop    = 0x11 // 0x55 -> EscapeMarker, escapedStop
	escapedMarker  = 0x22 // 0x73 -> EscapeMarker, escapedMarker

	// CRC-8 parameters. No reflection, no final XOR.
	crc8Poly = 0xA9
	crc8Init = 0x00

	// Header layout sizes, in the order fields appear on the wire.
	ParamsSize  = 1
	ReserveSize = 1
	DestSize    = 2
	SrcSize     = 2
	CommandSize = 1
	AuthSize    = 4
	CRCSize     = 1

	HeaderSize = ParamsSize + ReserveSize + DestSize + SrcSize + CommandSize + AuthSize // 11

	// Protocol maxima.
	MaxPayloadSize = 31
	MinFrameSize   = 10
	MaxFrameSize   = 64

	// params bit layout.
	paramsEncodedBit   = 0x80
	paramsVersionBit   = 0x40
	paramsDirectionBit = 0x20
	paramsLengthMask   = 0x1F

	// Address space.
	AddrProduction     uint16 = 0x0000
	AddrMeterLow       uint16 = 0x0001
	AddrMeterHigh      uint16 = 0xFDE8
	AddrReservedLow    uint16 = 0xFFDB
	AddrReservedHigh   uint16 = 0xFFFE
	AddrBroadcast      uint16 = 0xFFFF
)
