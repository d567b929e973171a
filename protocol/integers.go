package protocol

// Little-endian integer helpers. Every multi-byte header and payload field
// on the wire is little-endian.

func PutUint16(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func Uint16(src []byte) uint16 {
	return uint16(src[0]) | uint16(src[1])<<8
}

func PutUint32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func Uint32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

// PutUint24/Uint24 support the 3-byte current/power fields used by
// ReadInstantValue on Transition (100A) and New generations.
func PutUint24(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

func Uint24(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16
}
