package command

// Command codes.
const (
	CodePing             byte = 0x01
	CodeReadStatus       byte = 0x05
	CodeReadDateTime     byte = 0x1C
	CodeReadInstantValue byte = 0x2B
	CodeGetInfo          byte = 0x30
)

// Command is the catalog surface every built-in command implements.
// Client code drives a Command through this interface without knowing
// its concrete request/response shapes; callers that need the decoded
// fields type-assert the Response returned by DecodeResponse to the
// command's own response type(s).
type Command interface {
	Code() byte
	EncodeRequest(gen Generation, dst []byte) (int, error)
	DecodeResponse(gen Generation, payload []byte) (Response, error)
	SupportedFor(gen Generation) bool
	MinRequestSize(gen Generation) int
	ResponseSizeRange(gen Generation) (min, max int)
	RequiresPassword() bool
}

// Response marks a decoded command response. Concrete types are per
// command and, where the wire shape differs by generation, per generation
// — a tagged variant rather than one struct with optional fields.
type Response interface {
	isResponse()
}

// All registers the five built-in commands, keyed by code, for catalog
// lookups shared by the client and server packages.
func All() map[byte]Command {
	return map[byte]Command{
		CodePing:             Ping{},
		CodeReadStatus:       ReadStatus{},
		CodeReadDateTime:     ReadDateTime{},
		CodeReadInstantValue: ReadInstantValue{},
		CodeGetInfo:          GetInfo{},
	}
}
