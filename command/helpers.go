package command

import "github.com/compico/mirlib/protocol"

// Thin local aliases so each command file reads without a protocol.
// qualifier on every field access; the codec itself lives in protocol.
var (
	le16    = protocol.Uint16
	putLE16 = protocol.PutUint16
	le24    = protocol.Uint24
	putLE24 = protocol.PutUint24
	le32    = protocol.Uint32
	putLE32 = protocol.PutUint32
)
