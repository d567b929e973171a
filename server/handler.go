package server

import "github.com/compico/mirlib/protocol"

// Handler builds a response payload for an inbound request. req is the
// unpacked request packet; resp is caller-owned with protocol.MaxPayloadSize
// capacity. Handler returns the number of bytes it wrote.
type Handler func(req *protocol.Packet, resp []byte) (int, error)
