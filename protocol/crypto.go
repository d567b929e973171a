package protocol

import (
	crand "crypto/rand"
	mrand "math/rand"
	"time"
)

// GenerateEncodingKey returns a random one-byte XOR key for the "encoded"
// params bit. Key management beyond generating this byte is out of scope
// for the codec; this exists only so a caller that wants to set the bit
// has something to plumb through.
func GenerateEncodingKey() byte {
	var b [1]byte
	if _, err := crand.Read(b[:]); err == nil {
		return b[0]
	}
	src := mrand.NewSource(time.Now().UnixNano())
	return byte(mrand.New(src).Intn(256))
}

// XOR applies (or reverses, XOR being its own inverse) byte-wise XOR
// scrambling with a one-byte key over payload in place.
func XOR(payload []byte, key byte) {
	for i := range payload {
		payload[i] ^= key
	}
}
